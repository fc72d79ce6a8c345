package sim

import (
	"sync"

	"github.com/san-kum/partsim/internal/vecmath"
)

// FramePool recycles position buffers of a fixed particle count.
type FramePool struct {
	pool sync.Pool
	size int
}

func NewFramePool(particles int) *FramePool {
	return &FramePool{
		size: particles,
		pool: sync.Pool{
			New: func() interface{} {
				buf := make([]vecmath.Vector3, 0, particles)
				return &buf
			},
		},
	}
}

// Get returns an empty buffer with room for every particle.
func (p *FramePool) Get() []vecmath.Vector3 {
	return (*p.pool.Get().(*[]vecmath.Vector3))[:0]
}

func (p *FramePool) Put(buf []vecmath.Vector3) {
	if cap(buf) < p.size {
		return
	}
	buf = buf[:0]
	p.pool.Put(&buf)
}

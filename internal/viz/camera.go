package viz

import (
	"math"

	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/vecmath"
)

// Camera is an orthographic view of a scene. With no rotation it looks down
// the z axis at the scene's view box; rotating about x or y shows depth,
// which matters for the bridge.
type Camera struct {
	Center       vecmath.Vector3
	SpanX, SpanY float64
	RotX, RotY   float64
	Zoom         float64
}

func NewCamera(view scene.Box) *Camera {
	c := &Camera{
		Center: vecmath.New((view.MinX+view.MaxX)/2, (view.MinY+view.MaxY)/2, 0),
		SpanX:  view.Width(),
		SpanY:  view.Height(),
		Zoom:   1,
	}
	if c.SpanX <= 0 {
		c.SpanX = 1
	}
	if c.SpanY <= 0 {
		c.SpanY = 1
	}
	return c
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) Reset() {
	c.RotX, c.RotY, c.Zoom = 0, 0, 1
}

func (c *Camera) rotate(p vecmath.Vector3) vecmath.Vector3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// Project maps a world point to sub-pixel coordinates on a sw x sh canvas.
// The last result reports whether the point lands on the canvas.
func (c *Camera) Project(p vecmath.Vector3, sw, sh int) (int, int, bool) {
	r := c.rotate(p.Sub(c.Center))
	s := math.Min(float64(sw-1)/c.SpanX, float64(sh-1)/c.SpanY) * c.Zoom
	if math.IsNaN(r.X) || math.IsNaN(r.Y) || math.IsInf(r.X*s, 0) || math.IsInf(r.Y*s, 0) {
		return 0, 0, false
	}
	x := int(math.Round(r.X*s)) + sw/2
	y := int(math.Round(-r.Y*s)) + sh/2
	return x, y, x >= 0 && x < sw && y >= 0 && y < sh
}

package metrics

import (
	"math"

	"github.com/san-kum/partsim/internal/scene"
)

// ContactLoad is the mean number of contacts generated per frame.
type ContactLoad struct {
	name    string
	total   int
	samples int
}

func NewContactLoad() *ContactLoad {
	return &ContactLoad{name: "contact_load"}
}

func (c *ContactLoad) Name() string { return c.name }

func (c *ContactLoad) Observe(s *scene.Scene, t float64) {
	c.total += len(s.World.Contacts())
	c.samples++
}

func (c *ContactLoad) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.total) / float64(c.samples)
}

func (c *ContactLoad) Reset() {
	c.total = 0
	c.samples = 0
}

// Saturation is the fraction of frames that filled the contact buffer.
// Generators registered late are starved in those frames.
type Saturation struct {
	name    string
	full    int
	samples int
}

func NewSaturation() *Saturation {
	return &Saturation{name: "saturation"}
}

func (c *Saturation) Name() string { return c.name }

func (c *Saturation) Observe(s *scene.Scene, t float64) {
	c.samples++
	if len(s.World.Contacts()) >= s.World.MaxContacts() {
		c.full++
	}
}

func (c *Saturation) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.full) / float64(c.samples)
}

func (c *Saturation) Reset() {
	c.full = 0
	c.samples = 0
}

// MaxPenetration is the deepest penetration generated over the run.
type MaxPenetration struct {
	name string
	max  float64
}

func NewMaxPenetration() *MaxPenetration {
	return &MaxPenetration{name: "max_penetration"}
}

func (m *MaxPenetration) Name() string { return m.name }

func (m *MaxPenetration) Observe(s *scene.Scene, t float64) {
	m.max = math.Max(m.max, s.World.MaxPenetration())
}

func (m *MaxPenetration) Value() float64 { return m.max }
func (m *MaxPenetration) Reset()         { m.max = 0 }

// LinkError is the largest rod length error left after resolution.
type LinkError struct {
	name string
	max  float64
}

func NewLinkError() *LinkError {
	return &LinkError{name: "link_error"}
}

func (l *LinkError) Name() string { return l.name }

func (l *LinkError) Observe(s *scene.Scene, t float64) {
	l.max = math.Max(l.max, s.MaxRodError())
}

func (l *LinkError) Value() float64 { return l.max }
func (l *LinkError) Reset()         { l.max = 0 }

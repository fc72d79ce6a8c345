package storage

import (
	"github.com/san-kum/partsim/internal/links"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/scene"
)

// LinkRecord stores a link by particle index so it can be redrawn from
// recorded frames. B is -1 when the link ends at Anchor.
type LinkRecord struct {
	Kind   string     `json:"kind"`
	A      int        `json:"a"`
	B      int        `json:"b"`
	Anchor [3]float64 `json:"anchor"`
}

func LinksFromScene(sc *scene.Scene) []LinkRecord {
	index := make(map[*particle.Particle]int, len(sc.Particles))
	for i := range sc.Particles {
		index[&sc.Particles[i]] = i
	}

	out := make([]LinkRecord, 0)
	for _, l := range sc.Links() {
		switch l := l.(type) {
		case *links.Cable:
			out = append(out, LinkRecord{Kind: "cable", A: index[l.Particles[0]], B: index[l.Particles[1]]})
		case *links.Rod:
			out = append(out, LinkRecord{Kind: "rod", A: index[l.Particles[0]], B: index[l.Particles[1]]})
		case *links.CableConstraint:
			out = append(out, LinkRecord{Kind: "support", A: index[l.Particle], B: -1, Anchor: [3]float64{l.Anchor.X, l.Anchor.Y, l.Anchor.Z}})
		case *links.RodConstraint:
			out = append(out, LinkRecord{Kind: "arm", A: index[l.Particle], B: -1, Anchor: [3]float64{l.Anchor.X, l.Anchor.Y, l.Anchor.Z}})
		}
	}
	return out
}

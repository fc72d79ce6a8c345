package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/partsim/internal/sim"
)

var factories = map[string]func() sim.Metric{
	"kinetic_energy":  func() sim.Metric { return NewKineticEnergy() },
	"peak_energy":     func() sim.Metric { return NewPeakEnergy() },
	"stability":       func() sim.Metric { return NewStability(5) },
	"contact_load":    func() sim.Metric { return NewContactLoad() },
	"saturation":      func() sim.Metric { return NewSaturation() },
	"max_penetration": func() sim.Metric { return NewMaxPenetration() },
	"link_error":      func() sim.Metric { return NewLinkError() },
}

// Default returns a fresh instance of every metric.
func Default() []sim.Metric {
	out := make([]sim.Metric, 0, len(factories))
	for _, name := range Names() {
		out = append(out, factories[name]())
	}
	return out
}

func Get(name string) (sim.Metric, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

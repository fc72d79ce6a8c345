package scene

import (
	"fmt"
	"sort"

	"github.com/san-kum/partsim/internal/config"
)

type Builder func(cfg *config.Config) (*Scene, error)

type Registry struct {
	builders map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	r.Register("bridge", Bridge)
	r.Register("rope", Rope)
	r.Register("swarm", Swarm)
	r.Register("buoyancy", Buoyancy)
	r.Register("custom", Custom)
	return r
}

func (r *Registry) Register(name string, b Builder) {
	r.builders[name] = b
}

// Build validates cfg and builds the scene it names.
func (r *Registry) Build(cfg *config.Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, ok := r.builders[cfg.Scene]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, cfg.Scene)
	}
	return b(cfg)
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

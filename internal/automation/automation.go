package automation

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of scene runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`

	dir string
}

// ScenarioStep describes one run. Config is a scene config file, relative
// to the scenario file; without it the step starts from Preset, or from the
// defaults. Zero Dt, Duration and Seed keep the config's values.
type ScenarioStep struct {
	Name     string             `yaml:"name"`
	Scene    string             `yaml:"scene"`
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Params   map[string]float64 `yaml:"params"`
	Dt       float64            `yaml:"dt"`
	Duration float64            `yaml:"duration"`
	Seed     int64              `yaml:"seed"`
	Save     bool               `yaml:"save"`
}

type StepResult struct {
	Name   string
	Scene  string
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// configFor builds the scene config a step runs with.
func (s *Scenario) configFor(step ScenarioStep) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case step.Config != "":
		path := step.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case step.Preset != "":
		cfg = config.GetPreset(step.Scene, step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s for scene %s", step.Preset, step.Scene)
		}
	default:
		cfg = config.DefaultConfig()
	}

	if step.Scene != "" {
		cfg.Scene = step.Scene
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	if step.Seed != 0 {
		cfg.Seed = step.Seed
	}

	names := make([]string, 0, len(step.Params))
	for name := range step.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := cfg.SetParam(name, step.Params[name]); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps in order. Steps marked Save are stored in
// st when it is not nil. On error the results of the finished steps are
// returned with it.
func RunScenario(ctx context.Context, scenario *Scenario, reg *scene.Registry, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}

		cfg, err := scenario.configFor(step)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}
		log.Printf("[scenario] %s %d/%d: %s scene=%s", scenario.Name, i+1, len(scenario.Steps), name, cfg.Scene)

		sc, err := reg.Build(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, name, err)
		}

		s := sim.New(sc)
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration, ValidateState: true})
		if err != nil {
			return results, fmt.Errorf("step %d (%s) run: %w", i+1, name, err)
		}

		sr := StepResult{Name: name, Scene: cfg.Scene, Result: result}
		if step.Save && st != nil {
			if err := st.Init(); err != nil {
				return results, err
			}
			sr.RunID, err = st.Save(cfg, sc, result)
			if err != nil {
				return results, fmt.Errorf("step %d (%s) save: %w", i+1, name, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

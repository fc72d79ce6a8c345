package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/scene"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/vecmath"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scene       string             `json:"scene"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	MaxContacts int                `json:"max_contacts"`
	Iterations  int                `json:"iterations"`
	Particles   int                `json:"particles"`
	Steps       int                `json:"steps"`
	View        scene.Box          `json:"view"`
	Links       []LinkRecord       `json:"links,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
	Errors      []string           `json:"errors,omitempty"`
}

func (s *Store) Save(cfg *config.Config, sc *scene.Scene, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", sc.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scene:       sc.Name,
		Timestamp:   now,
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		MaxContacts: cfg.MaxContacts,
		Iterations:  cfg.Iterations,
		Particles:   result.Particles,
		Steps:       result.StepsTaken,
		View:        sc.View,
		Links:       LinksFromScene(sc),
		Metrics:     result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Particles, result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, particles int, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time", "contacts", "iterations"}
	for i := 0; i < particles; i++ {
		header = append(header, fmt.Sprintf("p%dx", i), fmt.Sprintf("p%dy", i), fmt.Sprintf("p%dz", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		row := make([]string, 0, len(header))
		row = append(row,
			strconv.FormatFloat(fr.Time, 'f', 6, 64),
			strconv.Itoa(fr.Contacts),
			strconv.Itoa(fr.Iterations),
		)
		for _, p := range fr.Positions {
			row = append(row,
				strconv.FormatFloat(p.X, 'f', 6, 64),
				strconv.FormatFloat(p.Y, 'f', 6, 64),
				strconv.FormatFloat(p.Z, 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads a run's frames back. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		fr, ok := parseFrame(record)
		if ok {
			frames = append(frames, fr)
		}
	}
	return frames, nil
}

func parseFrame(record []string) (sim.Frame, bool) {
	if len(record) < 3 || (len(record)-3)%3 != 0 {
		return sim.Frame{}, false
	}

	t, err := strconv.ParseFloat(record[0], 64)
	if err != nil {
		return sim.Frame{}, false
	}
	contacts, err := strconv.Atoi(record[1])
	if err != nil {
		return sim.Frame{}, false
	}
	iterations, err := strconv.Atoi(record[2])
	if err != nil {
		return sim.Frame{}, false
	}

	fr := sim.Frame{
		Time:       t,
		Contacts:   contacts,
		Iterations: iterations,
		Positions:  make([]vecmath.Vector3, 0, (len(record)-3)/3),
	}
	for j := 3; j < len(record); j += 3 {
		var v [3]float64
		for k := range v {
			v[k], err = strconv.ParseFloat(record[j+k], 64)
			if err != nil {
				return sim.Frame{}, false
			}
		}
		fr.Positions = append(fr.Positions, vecmath.New(v[0], v[1], v[2]))
	}
	return fr, true
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/slitsim/internal/analysis"
	"github.com/san-kum/slitsim/internal/dynamo"
	"github.com/san-kum/slitsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	hitsFile     = "hits.csv"
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

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Timestamp  time.Time               `json:"timestamp"`
	Seed       int64                   `json:"seed"`
	Ticks      int                     `json:"ticks"`
	Backend    string                  `json:"backend"`
	Simulation dynamo.SimulationConfig `json:"simulation"`
	Scale      dynamo.Scale            `json:"scale"`
	Hits       int                     `json:"hits"`
	Metrics    map[string]float64      `json:"metrics"`
	Fit        *analysis.Fit           `json:"fit,omitempty"`
}

// HitRecord is one row of hits.csv.
type HitRecord struct {
	Tick uint64  `csv:"tick" json:"tick"`
	X    float64 `csv:"x" json:"x"`
	Y    float64 `csv:"y" json:"y"`
	Slit string  `csv:"slit" json:"slit"`
}

func Records(hits []sim.Hit) []*HitRecord {
	out := make([]*HitRecord, len(hits))
	for i, h := range hits {
		out[i] = &HitRecord{Tick: h.Tick, X: h.X, Y: h.Y, Slit: h.Slit.String()}
	}
	return out
}

// Save writes a run directory and returns its id. meta.ID, Timestamp and
// Hits are filled in.
func (s *Store) Save(meta RunMetadata, hits []sim.Hit) (string, error) {
	if meta.Name == "" {
		meta.Name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Hits = len(hits)

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, hitsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := gocsv.MarshalFile(Records(hits), csvFile); err != nil {
		return "", fmt.Errorf("write hits: %w", err)
	}

	return runID, nil
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no runs in %s", dynamo.ErrRunNotFound, s.baseDir)
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadHits(runID string) ([]*HitRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, hitsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	records := make([]*HitRecord, 0)
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return records, nil
		}
		return nil, fmt.Errorf("parse hits %s: %w", runID, err)
	}
	return records, nil
}

// HitXs extracts the landing x coordinates of a record set.
func HitXs(records []*HitRecord) []float64 {
	xs := make([]float64, len(records))
	for i, r := range records {
		xs[i] = r.X
	}
	return xs
}

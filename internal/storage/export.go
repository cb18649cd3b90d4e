package storage

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"
)

type ExportData struct {
	Metadata RunMetadata  `json:"metadata"`
	Hits     []*HitRecord `json:"hits"`
}

// ExportJSON writes the metadata and hit log of a run as one document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	hits, err := s.LoadHits(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Metadata: *meta, Hits: hits})
}

// ExportCSV writes a run's hit log with its header.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	hits, err := s.LoadHits(runID)
	if err != nil {
		return err
	}
	return gocsv.Marshal(hits, w)
}

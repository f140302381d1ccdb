package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pheemnattavich-project/FloodSafe/internal/entities"
	"github.com/pheemnattavich-project/FloodSafe/internal/thai"
)

// JSONStationRepository implements StationRepository over a flat JSON file.
// The file holds exactly one crawl's records in the serialized record shape;
// each successful crawl rewrites it atomically via temp-file rename, so a
// reader never observes a half-written dataset.
type JSONStationRepository struct {
	path string
}

// NewJSONStationRepository creates a repository backed by the given file.
func NewJSONStationRepository(path string) (*JSONStationRepository, error) {
	if path == "" {
		path = "thaiwater_wl.json"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return &JSONStationRepository{path: path}, nil
}

// ReplaceStations rewrites the data file with the crawl's records.
func (r *JSONStationRepository) ReplaceStations(records []entities.StationRecord) error {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".stations-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode station data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	log.Info().Int("records", len(records)).Str("path", r.path).Msg("saved station data file")
	return nil
}

// GetLatestStations loads the data file. A missing file is an empty dataset,
// not an error, so a freshly deployed bot starts cleanly before any crawl.
func (r *JSONStationRepository) GetLatestStations() ([]entities.StationRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var records []entities.StationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode data file: %w", err)
	}

	// Tambon is derived, not serialized; rebuild it on load.
	for i := range records {
		records[i].Tambon = thai.ExtractTambon(records[i].Location)
	}
	return records, nil
}

// GetLastUpdateTime returns the data file's modification time.
func (r *JSONStationRepository) GetLastUpdateTime() (time.Time, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to stat data file: %w", err)
	}
	return info.ModTime(), nil
}

// Close is a no-op; the file is only open during reads and writes.
func (r *JSONStationRepository) Close() error {
	return nil
}

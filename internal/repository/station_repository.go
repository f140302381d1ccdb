// Package repository provides data access implementations
package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/pheemnattavich-project/FloodSafe/internal/entities"
	"github.com/pheemnattavich-project/FloodSafe/internal/thai"
)

// StationRepository defines the interface for station data persistence.
// A completed crawl replaces the stored collection wholesale; partial crawls
// are never written, so the stored data always describes one full traversal.
type StationRepository interface {
	ReplaceStations(records []entities.StationRecord) error
	GetLatestStations() ([]entities.StationRecord, error)
	GetLastUpdateTime() (time.Time, error)
	Close() error
}

// SQLiteStationRepository implements StationRepository using SQLite. Crawl
// batches are keyed by their crawl timestamp; reads return the latest batch.
type SQLiteStationRepository struct {
	db     *sql.DB
	DBPath string
}

// NewSQLiteStationRepository creates and initializes a new SQLite repository
func NewSQLiteStationRepository(dbPath string) (*SQLiteStationRepository, error) {
	if dbPath == "" {
		dbDir := "data"
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dbPath = filepath.Join(dbDir, "stationdata.db")
	}

	log.Info().Str("path", dbPath).Msg("opening database")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS station_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		station_name TEXT NOT NULL,
		river TEXT,
		location TEXT,
		water_level TEXT,
		bank_level TEXT,
		status TEXT,
		trend TEXT,
		update_time TEXT,
		crawled_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_station_crawled_at ON station_data(crawled_at);
	CREATE INDEX IF NOT EXISTS idx_station_name ON station_data(station_name);`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteStationRepository{
		db:     db,
		DBPath: dbPath,
	}, nil
}

// Close closes the database connection
func (r *SQLiteStationRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceStations stores a crawl's records as a new batch. Earlier batches
// are kept for history; readers only see the newest one.
func (r *SQLiteStationRepository) ReplaceStations(records []entities.StationRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO station_data(station_name, river, location, water_level, bank_level, status, trend, update_time, crawled_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	// One timestamp per batch so the whole crawl reads back together.
	crawledAt := time.Now().UTC()
	for _, rec := range records {
		_, err := stmt.Exec(
			rec.StationName,
			rec.River,
			rec.Location,
			rec.WaterLevel,
			rec.BankLevel,
			string(rec.Status),
			string(rec.Trend),
			rec.UpdateTime,
			crawledAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert data for station %s: %w", rec.StationName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().Int("records", len(records)).Time("crawled_at", crawledAt).Msg("saved station batch")
	return nil
}

// GetLatestStations returns the records of the most recent crawl batch in
// their original crawl order.
func (r *SQLiteStationRepository) GetLatestStations() ([]entities.StationRecord, error) {
	query := `
		SELECT station_name, river, location, water_level, bank_level, status, trend, update_time
		FROM station_data
		WHERE crawled_at = (SELECT MAX(crawled_at) FROM station_data)
		ORDER BY id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest stations: %w", err)
	}
	defer rows.Close()

	var result []entities.StationRecord
	for rows.Next() {
		var rec entities.StationRecord
		var status, trend string
		if err := rows.Scan(
			&rec.StationName,
			&rec.River,
			&rec.Location,
			&rec.WaterLevel,
			&rec.BankLevel,
			&status,
			&trend,
			&rec.UpdateTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec.Status = entities.Status(status)
		rec.Trend = entities.Trend(trend)
		rec.Tambon = thai.ExtractTambon(rec.Location)
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return result, nil
}

// GetLastUpdateTime returns the most recent crawl timestamp in the database
func (r *SQLiteStationRepository) GetLastUpdateTime() (time.Time, error) {
	var ts sql.NullString
	err := r.db.QueryRow("SELECT MAX(crawled_at) FROM station_data").Scan(&ts)
	if err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get last update time: %w", err)
	}

	if !ts.Valid || ts.String == "" {
		return time.Time{}, nil
	}

	// SQLite hands DATETIME values back in a few textual shapes depending
	// on how they went in.
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if t, perr := time.Parse(layout, ts.String); perr == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", ts.String)
}

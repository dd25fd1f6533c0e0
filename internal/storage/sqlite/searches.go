package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
	_ "modernc.org/sqlite"
)

// RecentSearch is one row of the recent search history. A station appears
// at most once, stamped with its latest lookup.
type RecentSearch struct {
	StationID      string    `json:"station"`
	FlightCategory string    `json:"flight_category,omitempty"`
	SearchedAt     time.Time `json:"searched_at"`
}

// SearchStorage is a SQLite-based store for the recent search history
type SearchStorage struct {
	db        *sql.DB
	logger    *logger.Logger
	maxRecent int
}

// NewSearchStorage creates a new SQLite-based search storage
func NewSearchStorage(dbPath string, maxRecent int, log *logger.Logger) (*SearchStorage, error) {
	storageLogger := log.Named("sqlite")

	storageLogger.Info("Initializing SQLite storage",
		logger.String("path", dbPath))

	// Open the database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Set pragmas for better performance and concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Create tables if they don't exist
	if err := initDatabase(db, storageLogger); err != nil {
		db.Close()
		return nil, err
	}

	return &SearchStorage{
		db:        db,
		logger:    storageLogger,
		maxRecent: maxRecent,
	}, nil
}

// Close closes the database connection
func (s *SearchStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initDatabase initializes the database schema
func initDatabase(db *sql.DB, log *logger.Logger) error {
	log.Info("Initializing database schema")

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS recent_searches (
			station_id TEXT PRIMARY KEY,
			flight_category TEXT,
			searched_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create recent_searches table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_recent_searches_searched_at ON recent_searches(searched_at DESC)`)
	if err != nil {
		return fmt.Errorf("failed to create recent_searches index: %w", err)
	}

	return nil
}

// RecordSearch upserts a station into the history with the given category
// and timestamp, then prunes the history down to the configured size.
func (s *SearchStorage) RecordSearch(stationID, flightCategory string, searchedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO recent_searches (station_id, flight_category, searched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(station_id) DO UPDATE SET
			flight_category = excluded.flight_category,
			searched_at = excluded.searched_at
	`, stationID, flightCategory, searchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record search for %s: %w", stationID, err)
	}

	_, err = s.db.Exec(`
		DELETE FROM recent_searches WHERE station_id NOT IN (
			SELECT station_id FROM recent_searches ORDER BY searched_at DESC LIMIT ?
		)
	`, s.maxRecent)
	if err != nil {
		return fmt.Errorf("failed to prune search history: %w", err)
	}

	return nil
}

// RecentSearches returns the history, newest first, bounded by the
// configured maximum.
func (s *SearchStorage) RecentSearches() ([]RecentSearch, error) {
	rows, err := s.db.Query(`
		SELECT station_id, flight_category, searched_at
		FROM recent_searches
		ORDER BY searched_at DESC
		LIMIT ?
	`, s.maxRecent)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent searches: %w", err)
	}
	defer rows.Close()

	var searches []RecentSearch
	for rows.Next() {
		var rec RecentSearch
		var searchedAt string
		if err := rows.Scan(&rec.StationID, &rec.FlightCategory, &searchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent search: %w", err)
		}
		ts, err := time.Parse(time.RFC3339, searchedAt)
		if err != nil {
			s.logger.Warn("Skipping search with malformed timestamp",
				logger.String("station_id", rec.StationID),
				logger.String("searched_at", searchedAt))
			continue
		}
		rec.SearchedAt = ts
		searches = append(searches, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recent searches: %w", err)
	}

	return searches, nil
}

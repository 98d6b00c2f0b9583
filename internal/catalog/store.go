// Package catalog keeps a SQLite record of simulation runs so any frame can be
// traced back to its config, seed and detector parameters.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ErrNotFound is returned by GetRun for an unknown run/frame.
var ErrNotFound = errors.New("catalog: run not found")

// Run is one exposed frame of a simulation run.
type Run struct {
	ID         string
	FrameIndex int
	CreatedAt  time.Time
	ConfigPath string
	Seed       uint64
	Rows       int
	Cols       int
	BitDepth   int
	MeanDN     float64
	StdDN      float64
	Saturated  int
	ADCHigh    int
	ADCLow     int
}

// Store provides SQLite persistence for runs.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (creating if needed) the catalog at path.
// Use ":memory:" for an in-memory database.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	// one connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure catalog: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return s, nil
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT NOT NULL,
		frame_index INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		config_path TEXT,
		seed TEXT NOT NULL,
		n_rows INTEGER NOT NULL,
		n_cols INTEGER NOT NULL,
		bit_depth INTEGER NOT NULL,
		mean_dn REAL,
		std_dn REAL,
		saturated INTEGER DEFAULT 0,
		adc_high INTEGER DEFAULT 0,
		adc_low INTEGER DEFAULT 0,
		PRIMARY KEY (id, frame_index)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts one frame record.
func (s *Store) RecordRun(r Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	// seeds are full uint64, SQLite integers are signed
	_, err := s.db.Exec(`
		INSERT INTO runs (id, frame_index, created_at, config_path, seed, n_rows, n_cols, bit_depth,
			mean_dn, std_dn, saturated, adc_high, adc_low)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.FrameIndex, r.CreatedAt.UTC(), r.ConfigPath, strconv.FormatUint(r.Seed, 10), r.Rows, r.Cols, r.BitDepth,
		r.MeanDN, r.StdDN, r.Saturated, r.ADCHigh, r.ADCLow)
	if err != nil {
		return fmt.Errorf("failed to record run %s/%d: %w", r.ID, r.FrameIndex, err)
	}
	return nil
}

const runColumns = `id, frame_index, created_at, config_path, seed, n_rows, n_cols, bit_depth,
	mean_dn, std_dn, saturated, adc_high, adc_low`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r       Run
		cfgPath sql.NullString
		seed    string
	)
	if err := sc.Scan(&r.ID, &r.FrameIndex, &r.CreatedAt, &cfgPath, &seed, &r.Rows, &r.Cols, &r.BitDepth,
		&r.MeanDN, &r.StdDN, &r.Saturated, &r.ADCHigh, &r.ADCLow); err != nil {
		return nil, err
	}
	r.ConfigPath = cfgPath.String
	var err error
	if r.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("bad seed %q for run %s: %w", seed, r.ID, err)
	}
	return &r, nil
}

// GetRun returns one frame of a run.
func (s *Store) GetRun(id string, frameIndex int) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ? AND frame_index = ?`, id, frameIndex)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s/%d: %w", id, frameIndex, err)
	}
	return r, nil
}

// ListRuns returns the most recent records first; limit <= 0 returns all.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id, frame_index`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

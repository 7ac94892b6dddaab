package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one completed build.
type Entry struct {
	ID          int64     `json:"id"`
	ScriptPath  string    `json:"script_path"`
	OutputPath  string    `json:"output_path"`
	Engine      string    `json:"engine"`
	Voice       string    `json:"voice"`
	RateWPM     int       `json:"rate_wpm"`
	DurationSec float64   `json:"duration_sec"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store keeps the build log in a local sqlite file. It is strictly a
// convenience record: callers log failures and move on, a build never
// fails because of it.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		script_path TEXT,
		output_path TEXT,
		engine TEXT,
		voice TEXT,
		rate_wpm INTEGER,
		duration_sec REAL,
		size_bytes INTEGER,
		created_at DATETIME
	);`)
	return err
}

func (s *Store) Append(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (script_path, output_path, engine, voice, rate_wpm, duration_sec, size_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ScriptPath, e.OutputPath, e.Engine, e.Voice, e.RateWPM, e.DurationSec, e.SizeBytes, e.CreatedAt)
	return err
}

// Recent returns the newest builds first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, script_path, output_path, engine, voice, rate_wpm, duration_sec, size_bytes, created_at
		 FROM builds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ScriptPath, &e.OutputPath, &e.Engine, &e.Voice, &e.RateWPM, &e.DurationSec, &e.SizeBytes, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

package preference

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zhouzirui/billboard/backend/internal/config"
	"github.com/zhouzirui/billboard/backend/internal/model/preference"
)

// SQLiteBackend stores records in a local SQLite file.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating if needed) the database at path.
func NewSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS food_preferences (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		food TEXT NOT NULL,
		location TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Name() string { return config.BackendSQLite }

func (s *SQLiteBackend) Put(ctx context.Context, rec preference.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO food_preferences (id, name, food, location, timestamp) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Food, rec.Location, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (s *SQLiteBackend) Scan(ctx context.Context) ([]preference.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, food, location, timestamp FROM food_preferences ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]preference.Record, 0)
	for rows.Next() {
		var rec preference.Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Food, &rec.Location, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

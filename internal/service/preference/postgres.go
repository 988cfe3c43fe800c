package preference

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zhouzirui/billboard/backend/internal/config"
	"github.com/zhouzirui/billboard/backend/internal/model/preference"
)

// PostgresBackend stores records in a food_preferences table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend opens a pool, pings it and ensures the table exists.
func NewPostgresBackend(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS food_preferences (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			food TEXT NOT NULL,
			location TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &PostgresBackend{pool: pool}, nil
}

func (p *PostgresBackend) Name() string { return config.BackendPostgres }

func (p *PostgresBackend) Put(ctx context.Context, rec preference.Record) error {
	query := `
		INSERT INTO food_preferences (id, name, food, location, timestamp)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := p.pool.Exec(ctx, query, rec.ID, rec.Name, rec.Food, rec.Location, rec.Timestamp); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Scan(ctx context.Context) ([]preference.Record, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, food, location, timestamp FROM food_preferences ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[preference.Record])
	if err != nil {
		return nil, fmt.Errorf("collect records: %w", err)
	}
	return records, nil
}

func (p *PostgresBackend) Close() error {
	p.pool.Close()
	return nil
}

package equipment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const equipmentByIDQuery = `
SELECT e.id::text,
       COALESCE(e.name, ''),
       COALESCE(e.type, ''),
       COALESCE(e.category, ''),
       e.criticality::float8,
       e.value::float8,
       e.department_id::text,
       d.estimated_revenue_hourly::float8
FROM equipment e
LEFT JOIN departments d ON d.id = e.department_id
WHERE e.id::text = $1`

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresProvider reads equipment straight from the maintenance database.
type PostgresProvider struct {
	db   rowQuerier
	pool *pgxpool.Pool
}

// NewPostgresProvider connects a pool to databaseURL and verifies it with a ping.
func NewPostgresProvider(ctx context.Context, databaseURL string) (*PostgresProvider, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Connected to equipment database")
	return &PostgresProvider{db: pool, pool: pool}, nil
}

// Close releases the pool.
func (p *PostgresProvider) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *PostgresProvider) Get(ctx context.Context, id string) (*Equipment, error) {
	var (
		e                      Equipment
		criticality, value     *float64
		departmentID           *string
		estimatedRevenueHourly *float64
	)

	err := p.db.QueryRow(ctx, equipmentByIDQuery, id).Scan(
		&e.ID,
		&e.Name,
		&e.Type,
		&e.Category,
		&criticality,
		&value,
		&departmentID,
		&estimatedRevenueHourly,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get equipment %s: %w", id, err)
	}

	if criticality != nil {
		e.Criticality = *criticality
	}
	if value != nil {
		e.Value = *value
	}
	if departmentID != nil {
		e.DepartmentID = *departmentID
	}
	e.EstimatedRevenueHourly = estimatedRevenueHourly

	return &e, nil
}

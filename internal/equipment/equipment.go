package equipment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"downtime-mcs/internal/simulation"
)

// ErrNotFound is returned when no equipment exists for an id.
var ErrNotFound = errors.New("equipment not found")

// RevenueShareOfValue estimates hourly revenue from the asset value when the
// owning department publishes no revenue figure.
const RevenueShareOfValue = 0.0001

// Equipment is the read-only snapshot of an asset needed to simulate its downtime.
type Equipment struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type,omitempty"`
	Category     string  `json:"category,omitempty"`
	Criticality  float64 `json:"criticality"`
	Value        float64 `json:"value"`
	DepartmentID string  `json:"department_id,omitempty"`

	// EstimatedRevenueHourly comes from the owning department. Nil or
	// non-positive means unknown.
	EstimatedRevenueHourly *float64 `json:"estimated_revenue_hourly,omitempty"`
}

// BaseParameters derives the cost-driver means for a downtime of e.
func (e *Equipment) BaseParameters() simulation.CostParameters {
	revenue := e.Value * RevenueShareOfValue
	if e.EstimatedRevenueHourly != nil && *e.EstimatedRevenueHourly > 0 {
		revenue = *e.EstimatedRevenueHourly
	}
	return simulation.CostParameters{
		RevenuePerHour:    revenue,
		AffectedEmployees: math.Max(1, math.Round(e.Criticality*2)),
		HourlyWage:        simulation.DefaultHourlyWage,
		EquipmentValue:    math.Max(0, e.Value),
	}
}

// Provider looks up equipment by id.
type Provider interface {
	Get(ctx context.Context, id string) (*Equipment, error)
}

// Source selects the Provider implementation.
type Source string

const (
	SourceFile     Source = "file"
	SourceHTTP     Source = "http"
	SourcePostgres Source = "postgres"
)

// Config holds the connection settings of every provider kind.
type Config struct {
	Source Source

	// File
	FilePath string

	// HTTP
	BaseURL      string
	Token        string
	RequestDelay time.Duration

	// Postgres
	DatabaseURL string
}

// NewProvider builds the provider selected by cfg.Source.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Source {
	case SourceFile, "":
		store := NewFileStore(cfg.FilePath)
		if err := store.Load(); err != nil {
			return nil, err
		}
		return store, nil
	case SourceHTTP:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("equipment source %q requires EQUIPMENT_API_URL", cfg.Source)
		}
		return NewHTTPProvider(cfg), nil
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("equipment source %q requires DATABASE_URL", cfg.Source)
		}
		return NewPostgresProvider(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown equipment source %q", cfg.Source)
	}
}

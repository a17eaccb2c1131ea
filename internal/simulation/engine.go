package simulation

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"
	"time"

	"downtime-mcs/internal/stats"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of trials drawn from one random stream. It is
// fixed so a seeded run yields the same trials for any worker count.
const chunkSize = 1000

// Trial is the outcome of one Monte-Carlo iteration.
type Trial struct {
	Breakdown
	Iteration int `json:"iteration"`
}

// Result is a completed simulation run.
type Result struct {
	RunID      string        `json:"run_id"`
	Trials     []Trial       `json:"results,omitempty"`
	Stats      stats.Summary `json:"stats"`
	Iterations int           `json:"iterations"`
	Parameters Config        `json:"parameters"`
	Timestamp  time.Time     `json:"timestamp"`
}

// WithoutTrials returns a shallow copy of r without the per-trial list.
func (r *Result) WithoutTrials() *Result {
	if r == nil {
		return nil
	}
	copied := *r
	copied.Trials = nil
	return &copied
}

// Engine performs the Monte-Carlo simulation of downtime cost.
type Engine struct {
	workers int
	source  UniformSource
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of goroutines drawing trials.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithSource pins every draw to src. Runs then execute sequentially on the
// caller's goroutine and ignore Config.Seed.
func WithSource(src UniformSource) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// NewEngine returns an engine using GOMAXPROCS workers unless opts say otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Trials draws cfg.Iterations independent trials. Trial i perturbs every
// driver of base with its variation coefficient and evaluates the cost
// formula for downtimeHours.
func (e *Engine) Trials(ctx context.Context, downtimeHours float64, base CostParameters, cfg Config) ([]Trial, error) {
	if err := validateRun(downtimeHours, base, cfg); err != nil {
		return nil, err
	}

	trials := make([]Trial, cfg.Iterations)

	if e.source != nil {
		sampler := NewSampler(e.source)
		for i := range trials {
			if i%chunkSize == 0 {
				if err := ctx.Err(); err != nil {
					return nil, contextError(err)
				}
			}
			trials[i] = drawTrial(sampler, i, downtimeHours, base, cfg)
		}
		return trials, nil
	}

	seed := rand.Uint64()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	chunks := 0
	for start := 0; start < len(trials); start += chunkSize {
		end := min(start+chunkSize, len(trials))
		stream := uint64(chunks)
		chunks++

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sampler := NewSampler(NewSource(seed, stream))
			for i := start; i < end; i++ {
				trials[i] = drawTrial(sampler, i, downtimeHours, base, cfg)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, contextError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	log.Debug().
		Int("iterations", cfg.Iterations).
		Int("chunks", chunks).
		Int("workers", e.workers).
		Msg("Trials drawn")

	return trials, nil
}

// Run draws the trials, sorts them ascending by total cost and aggregates
// their statistics.
func (e *Engine) Run(ctx context.Context, downtimeHours float64, base CostParameters, cfg Config) (*Result, error) {
	started := time.Now()

	trials, err := e.Trials(ctx, downtimeHours, base, cfg)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(trials, func(a, b Trial) int {
		return cmp.Compare(a.TotalCost, b.TotalCost)
	})

	totals := make([]float64, len(trials))
	for i, t := range trials {
		totals[i] = t.TotalCost
	}

	summary, err := stats.AggregateSorted(totals)
	if errors.Is(err, stats.ErrNonFiniteValue) {
		// Finite inputs whose product overflows float64
		return nil, fmt.Errorf("%w: trial cost out of range: %w", ErrInvalidInput, err)
	}
	if err != nil {
		return nil, fmt.Errorf("aggregating trials: %w", err)
	}

	log.Debug().
		Int("iterations", cfg.Iterations).
		Float64("mean", summary.Mean).
		Dur("elapsed", time.Since(started)).
		Msg("Simulation completed")

	return &Result{
		RunID:      uuid.NewString(),
		Trials:     trials,
		Stats:      summary,
		Iterations: cfg.Iterations,
		Parameters: cfg,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// ValidateDowntime rejects negative or non-finite downtime durations.
func ValidateDowntime(downtimeHours float64) error {
	if math.IsNaN(downtimeHours) || math.IsInf(downtimeHours, 0) || downtimeHours < 0 {
		return fmt.Errorf("%w: downtime hours must be a finite value >= 0, got %v", ErrInvalidInput, downtimeHours)
	}
	return nil
}

func validateRun(downtimeHours float64, base CostParameters, cfg Config) error {
	if err := ValidateDowntime(downtimeHours); err != nil {
		return err
	}
	if err := base.Validate(); err != nil {
		return err
	}
	return cfg.Validate()
}

func drawTrial(s *Sampler, iteration int, downtimeHours float64, base CostParameters, cfg Config) Trial {
	revenue := math.Max(0, s.Normal(base.RevenuePerHour, base.RevenuePerHour*cfg.RevenueVariation))
	employees := math.Max(0, math.Round(s.Normal(base.AffectedEmployees, base.AffectedEmployees*cfg.EmployeeVariation)))
	wage := math.Max(0, s.Normal(base.HourlyWage, base.HourlyWage*cfg.WageVariation))
	value := math.Max(0, s.Normal(base.EquipmentValue, base.EquipmentValue*cfg.EquipmentValueVariation))

	return Trial{
		Breakdown: Cost(downtimeHours, revenue, employees, wage, value),
		Iteration: iteration,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"downtime-mcs/internal/equipment"
	"downtime-mcs/internal/metrics"
	"downtime-mcs/internal/report"
	"downtime-mcs/internal/risk"
	"downtime-mcs/internal/simulation"
	"downtime-mcs/internal/stats"

	"github.com/rs/zerolog/log"
)

// Operation names used in logs and metrics.
const (
	OpRunSimulation          = "run_simulation"
	OpRunEquipmentSimulation = "run_equipment_simulation"
	OpGenerateRiskReport     = "generate_risk_report"
	OpRunSensitivityAnalysis = "run_sensitivity_analysis"
)

// Options tunes the engine boundary. Zero values select the defaults.
type Options struct {
	Iterations            int
	SensitivityIterations int
	Workers               int
	Timeout               time.Duration
	Seed                  *uint64
	ConfidenceLevel       float64
}

func (o Options) withDefaults() Options {
	if o.Iterations <= 0 {
		o.Iterations = simulation.DefaultIterations
	}
	if o.SensitivityIterations <= 0 {
		o.SensitivityIterations = simulation.DefaultSensitivityIterations
	}
	if o.ConfidenceLevel == 0 {
		o.ConfidenceLevel = risk.DefaultConfidenceLevel
	}
	return o
}

// EquipmentInfo identifies the simulated asset in results.
type EquipmentInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type,omitempty"`
	Category    string  `json:"category,omitempty"`
	Criticality float64 `json:"criticality"`
	Value       float64 `json:"value"`
}

// EquipmentSimulation is a simulation run annotated with the equipment it
// was derived from.
type EquipmentSimulation struct {
	*simulation.Result
	Equipment      EquipmentInfo             `json:"equipment"`
	DowntimeHours  float64                   `json:"downtime_hours"`
	BaseParameters simulation.CostParameters `json:"base_parameters"`
	ExpectedCost   simulation.Breakdown      `json:"expected_cost"`
}

// Service is the engine boundary. It resolves equipment, runs simulations
// and sweeps, and assembles risk reports. It holds no per-call state.
type Service struct {
	provider equipment.Provider
	engine   *simulation.Engine
	opts     Options
}

// New builds a Service over provider. engineOpts are applied after the
// worker option derived from opts.
func New(provider equipment.Provider, opts Options, engineOpts ...simulation.Option) *Service {
	opts = opts.withDefaults()
	engineOpts = append([]simulation.Option{simulation.WithWorkers(opts.Workers)}, engineOpts...)
	return &Service{
		provider: provider,
		engine:   simulation.NewEngine(engineOpts...),
		opts:     opts,
	}
}

// Options returns the effective options.
func (s *Service) Options() Options {
	return s.opts
}

// DefaultConfig is the SimulationConfig applied when a caller sends no overrides.
func (s *Service) DefaultConfig() simulation.Config {
	cfg := simulation.DefaultConfig()
	cfg.Iterations = s.opts.Iterations
	if s.opts.Seed != nil {
		seed := *s.opts.Seed
		cfg.Seed = &seed
	}
	return cfg
}

// RunSimulation simulates downtimeHours of outage for explicit cost drivers.
func (s *Service) RunSimulation(ctx context.Context, downtimeHours float64, base simulation.CostParameters, overrides *simulation.Overrides) (*simulation.Result, error) {
	return observe(ctx, s, OpRunSimulation, func(ctx context.Context) (*simulation.Result, error) {
		cfg := overrides.Apply(s.DefaultConfig())
		res, err := s.engine.Run(ctx, downtimeHours, base.WithDefaults(), cfg)
		if err != nil {
			return nil, err
		}
		metrics.AddTrials(res.Iterations)
		return res, nil
	})
}

// RunEquipmentSimulation simulates a downtime of the given equipment using
// cost drivers derived from its snapshot.
func (s *Service) RunEquipmentSimulation(ctx context.Context, equipmentID string, downtimeHours float64) (*EquipmentSimulation, error) {
	return observe(ctx, s, OpRunEquipmentSimulation, func(ctx context.Context) (*EquipmentSimulation, error) {
		e, err := s.lookup(ctx, equipmentID, downtimeHours)
		if err != nil {
			return nil, err
		}
		return s.simulateEquipment(ctx, e, downtimeHours)
	})
}

// RunSensitivityAnalysis sweeps each cost driver of the equipment one at a
// time. variations are merged over the default sweep per driver.
func (s *Service) RunSensitivityAnalysis(ctx context.Context, equipmentID string, downtimeHours float64, variations simulation.VariationSet) (*report.SensitivityAnalysis, error) {
	return observe(ctx, s, OpRunSensitivityAnalysis, func(ctx context.Context) (*report.SensitivityAnalysis, error) {
		e, err := s.lookup(ctx, equipmentID, downtimeHours)
		if err != nil {
			return nil, err
		}
		baseline, err := s.simulateEquipment(ctx, e, downtimeHours)
		if err != nil {
			return nil, err
		}
		return s.sweep(ctx, e, downtimeHours, variations, baseline.Stats)
	})
}

// GenerateRiskReport runs the baseline simulation, assesses its risk, sweeps
// sensitivity with the default variations and composes the report.
func (s *Service) GenerateRiskReport(ctx context.Context, equipmentID string, downtimeHours float64) (*report.Report, error) {
	return observe(ctx, s, OpGenerateRiskReport, func(ctx context.Context) (*report.Report, error) {
		e, err := s.lookup(ctx, equipmentID, downtimeHours)
		if err != nil {
			return nil, err
		}
		baseline, err := s.simulateEquipment(ctx, e, downtimeHours)
		if err != nil {
			return nil, err
		}
		assessment, err := risk.Assess(baseline.Stats, s.opts.ConfidenceLevel)
		if err != nil {
			return nil, err
		}
		sa, err := s.sweep(ctx, e, downtimeHours, nil, baseline.Stats)
		if err != nil {
			return nil, err
		}
		r := report.Compose(baseline.Stats, assessment, *sa)
		return &r, nil
	})
}

func (s *Service) lookup(ctx context.Context, equipmentID string, downtimeHours float64) (*equipment.Equipment, error) {
	if strings.TrimSpace(equipmentID) == "" {
		return nil, fmt.Errorf("%w: equipment id is required", simulation.ErrInvalidInput)
	}
	if err := simulation.ValidateDowntime(downtimeHours); err != nil {
		return nil, err
	}

	e, err := s.provider.Get(ctx, equipmentID)
	if err != nil {
		metrics.IncreaseEquipmentLookup(outcome(err))
		return nil, fmt.Errorf("looking up equipment %s: %w", equipmentID, err)
	}
	metrics.IncreaseEquipmentLookup(metrics.OutcomeSuccess)
	return e, nil
}

func (s *Service) simulateEquipment(ctx context.Context, e *equipment.Equipment, downtimeHours float64) (*EquipmentSimulation, error) {
	base := e.BaseParameters()
	res, err := s.engine.Run(ctx, downtimeHours, base, s.DefaultConfig())
	if err != nil {
		return nil, err
	}
	metrics.AddTrials(res.Iterations)

	return &EquipmentSimulation{
		Result: res,
		Equipment: EquipmentInfo{
			ID:          e.ID,
			Name:        e.Name,
			Type:        e.Type,
			Category:    e.Category,
			Criticality: e.Criticality,
			Value:       e.Value,
		},
		DowntimeHours:  downtimeHours,
		BaseParameters: base,
		ExpectedCost:   simulation.ExpectedCost(downtimeHours, base),
	}, nil
}

func (s *Service) sweep(ctx context.Context, e *equipment.Equipment, downtimeHours float64, variations simulation.VariationSet, baseline stats.Summary) (*report.SensitivityAnalysis, error) {
	set := simulation.DefaultVariations().Merge(variations)

	cfg := s.DefaultConfig()
	cfg.Iterations = s.opts.SensitivityIterations

	results, err := s.engine.Sensitivity(ctx, downtimeHours, e.BaseParameters(), set, cfg)
	if err != nil {
		return nil, err
	}

	points := 0
	for _, list := range set {
		points += len(list)
	}
	metrics.AddTrials(points * cfg.Iterations)

	sa := report.NewSensitivityAnalysis(e.ID, downtimeHours, results, baseline.Mean)
	return &sa, nil
}

// observe bounds fn by the configured timeout and records its outcome.
func observe[T any](ctx context.Context, s *Service, op string, fn func(context.Context) (T, error)) (T, error) {
	started := time.Now()
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	result, err := fn(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, simulation.ErrTimeout) {
		err = fmt.Errorf("%w after %s: %v", simulation.ErrTimeout, s.opts.Timeout, err)
	}

	elapsed := time.Since(started)
	metrics.ObserveRun(op, outcome(err), elapsed)

	if err != nil {
		log.Error().Err(err).Str("operation", op).Dur("elapsed", elapsed).Msg("Operation failed")
		var zero T
		return zero, err
	}
	log.Info().Str("operation", op).Dur("elapsed", elapsed).Msg("Operation completed")
	return result, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, equipment.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, simulation.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	case errors.Is(err, simulation.ErrInvalidInput), errors.Is(err, simulation.ErrInvalidConfiguration):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

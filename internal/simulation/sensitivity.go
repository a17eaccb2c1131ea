package simulation

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Parameter names a cost driver that a sensitivity sweep can perturb.
type Parameter string

const (
	RevenuePerHour    Parameter = "revenuePerHour"
	AffectedEmployees Parameter = "affectedEmployees"
	HourlyWage        Parameter = "hourlyWage"
	EquipmentValue    Parameter = "equipmentValue"
)

// Parameters lists every perturbable driver in report order.
var Parameters = []Parameter{RevenuePerHour, AffectedEmployees, HourlyWage, EquipmentValue}

// Scale returns a copy of p with one driver multiplied by (1 + variation).
func (p CostParameters) Scale(param Parameter, variation float64) (CostParameters, error) {
	factor := 1 + variation
	switch param {
	case RevenuePerHour:
		p.RevenuePerHour *= factor
	case AffectedEmployees:
		p.AffectedEmployees *= factor
	case HourlyWage:
		p.HourlyWage *= factor
	case EquipmentValue:
		p.EquipmentValue *= factor
	default:
		return p, fmt.Errorf("%w: unknown sensitivity parameter %q", ErrInvalidInput, param)
	}
	return p, nil
}

// Variation is a relative change of a driver, e.g. -0.25 for minus 25%.
// It encodes as a JSON object key such as "-0.25".
type Variation float64

// String formats v in the shortest form that parses back to the same value.
func (v Variation) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

// MarshalText implements encoding.TextMarshaler.
func (v Variation) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variation) UnmarshalText(text []byte) error {
	f, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return fmt.Errorf("invalid variation %q: %w", text, err)
	}
	*v = Variation(f)
	return nil
}

// VariationSet lists the relative variations to evaluate per driver.
type VariationSet map[Parameter][]float64

// DefaultVariations is the standard one-at-a-time sweep.
func DefaultVariations() VariationSet {
	return VariationSet{
		RevenuePerHour:    {-0.5, -0.25, 0.25, 0.5},
		AffectedEmployees: {-0.5, -0.25, 0.25, 0.5},
		HourlyWage:        {-0.2, -0.1, 0.1, 0.2},
		EquipmentValue:    {-0.5, -0.25, 0.25, 0.5},
	}
}

// Merge returns a copy of vs where every driver present in over replaces
// the driver's list in vs.
func (vs VariationSet) Merge(over VariationSet) VariationSet {
	merged := make(VariationSet, len(vs)+len(over))
	for p, list := range vs {
		merged[p] = slices.Clone(list)
	}
	for p, list := range over {
		merged[p] = slices.Clone(list)
	}
	return merged
}

// SensitivityResult maps driver -> variation -> mean total cost.
type SensitivityResult map[Parameter]map[Variation]float64

type sensitivityPoint struct {
	param     Parameter
	variation float64
	mean      float64
}

// Sensitivity runs one reduced simulation per (driver, variation) pair,
// perturbing a single driver at a time, and records each run's mean total
// cost. cfg supplies the iteration count and variation coefficients of every
// point. A seeded cfg gives point j the seed cfg.Seed+j+1, where points are
// ordered by driver name and then by list position.
func (e *Engine) Sensitivity(ctx context.Context, downtimeHours float64, base CostParameters, variations VariationSet, cfg Config) (SensitivityResult, error) {
	if err := validateRun(downtimeHours, base, cfg); err != nil {
		return nil, err
	}

	params := make([]Parameter, 0, len(variations))
	for p := range variations {
		params = append(params, p)
	}
	slices.Sort(params)

	var points []*sensitivityPoint
	for _, p := range params {
		for _, v := range variations[p] {
			if _, err := base.Scale(p, v); err != nil {
				return nil, err
			}
			points = append(points, &sensitivityPoint{param: p, variation: v})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if e.source != nil {
		g.SetLimit(1)
	} else {
		g.SetLimit(e.workers)
	}

	for j, pt := range points {
		pointCfg := cfg
		if cfg.Seed != nil {
			seed := *cfg.Seed + uint64(j) + 1
			pointCfg.Seed = &seed
		}
		g.Go(func() error {
			modified, err := base.Scale(pt.param, pt.variation)
			if err != nil {
				return err
			}
			res, err := e.Run(gctx, downtimeHours, modified, pointCfg)
			if err != nil {
				return fmt.Errorf("sensitivity %s %+g: %w", pt.param, pt.variation, err)
			}
			pt.mean = res.Stats.Mean
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, contextError(err)
	}

	result := make(SensitivityResult, len(params))
	for _, p := range params {
		result[p] = make(map[Variation]float64, len(variations[p]))
	}
	for _, pt := range points {
		result[pt.param][Variation(pt.variation)] = pt.mean
	}

	log.Debug().
		Int("parameters", len(params)).
		Int("points", len(points)).
		Int("iterations", cfg.Iterations).
		Msg("Sensitivity sweep completed")

	return result, nil
}

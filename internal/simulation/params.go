package simulation

import (
	"fmt"
	"math"
)

const (
	// HoursPerYear prorates annual depreciation to the downtime window.
	HoursPerYear = 8760.0
	// AnnualDepreciationRate is the share of equipment value lost per year.
	AnnualDepreciationRate = 0.001
	// DefaultHourlyWage applies when the caller supplies no wage.
	DefaultHourlyWage = 50.0
	// DefaultIterations is the trial count of a full simulation.
	DefaultIterations = 10000
	// DefaultSensitivityIterations is the trial count of each sensitivity point.
	DefaultSensitivityIterations = 1000
	// MaxIterations caps the trial count of one run; every trial is held in memory.
	MaxIterations = 1_000_000
)

// CostParameters are the means of the normally distributed cost drivers.
// AffectedEmployees is an expected headcount; every trial rounds its draw
// to a whole number of people.
type CostParameters struct {
	RevenuePerHour    float64 `json:"revenuePerHour" yaml:"revenuePerHour"`
	AffectedEmployees float64 `json:"affectedEmployees" yaml:"affectedEmployees"`
	HourlyWage        float64 `json:"hourlyWage" yaml:"hourlyWage"`
	EquipmentValue    float64 `json:"equipmentValue" yaml:"equipmentValue"`
}

// Validate rejects negative or non-finite parameters.
func (p CostParameters) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"revenuePerHour", p.RevenuePerHour},
		{"affectedEmployees", p.AffectedEmployees},
		{"hourlyWage", p.HourlyWage},
		{"equipmentValue", p.EquipmentValue},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return fmt.Errorf("%w: %s must be a finite value >= 0, got %v", ErrInvalidInput, f.name, f.value)
		}
	}
	return nil
}

// WithDefaults fills a zero hourly wage with DefaultHourlyWage.
func (p CostParameters) WithDefaults() CostParameters {
	if p.HourlyWage == 0 {
		p.HourlyWage = DefaultHourlyWage
	}
	return p
}

// Config controls a simulation run. Variations are coefficients of
// variation: the standard deviation of a driver is its mean times the
// variation.
type Config struct {
	Iterations              int     `json:"iterations" yaml:"iterations"`
	RevenueVariation        float64 `json:"revenueVariation" yaml:"revenueVariation"`
	EmployeeVariation       float64 `json:"employeeVariation" yaml:"employeeVariation"`
	WageVariation           float64 `json:"wageVariation" yaml:"wageVariation"`
	EquipmentValueVariation float64 `json:"equipmentValueVariation" yaml:"equipmentValueVariation"`

	// Seed makes the run reproducible. Nil draws a fresh seed per run.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DefaultConfig returns the standard run settings.
func DefaultConfig() Config {
	return Config{
		Iterations:              DefaultIterations,
		RevenueVariation:        0.10,
		EmployeeVariation:       0.15,
		WageVariation:           0.05,
		EquipmentValueVariation: 0.20,
	}
}

// Validate checks the iteration count and variation coefficients.
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be > 0, got %d", ErrInvalidConfiguration, c.Iterations)
	}
	if c.Iterations > MaxIterations {
		return fmt.Errorf("%w: iterations must be <= %d, got %d", ErrInvalidConfiguration, MaxIterations, c.Iterations)
	}
	variations := []struct {
		name  string
		value float64
	}{
		{"revenueVariation", c.RevenueVariation},
		{"employeeVariation", c.EmployeeVariation},
		{"wageVariation", c.WageVariation},
		{"equipmentValueVariation", c.EquipmentValueVariation},
	}
	for _, v := range variations {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) || v.value < 0 {
			return fmt.Errorf("%w: %s must be a finite value >= 0, got %v", ErrInvalidConfiguration, v.name, v.value)
		}
	}
	return nil
}

// Overrides replaces selected Config fields. Nil fields keep the base value.
type Overrides struct {
	Iterations              *int     `json:"iterations,omitempty" yaml:"iterations,omitempty"`
	RevenueVariation        *float64 `json:"revenueVariation,omitempty" yaml:"revenueVariation,omitempty"`
	EmployeeVariation       *float64 `json:"employeeVariation,omitempty" yaml:"employeeVariation,omitempty"`
	WageVariation           *float64 `json:"wageVariation,omitempty" yaml:"wageVariation,omitempty"`
	EquipmentValueVariation *float64 `json:"equipmentValueVariation,omitempty" yaml:"equipmentValueVariation,omitempty"`
	Seed                    *uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Apply returns base with every non-nil override written over it.
func (o *Overrides) Apply(base Config) Config {
	if o == nil {
		return base
	}
	if o.Iterations != nil {
		base.Iterations = *o.Iterations
	}
	if o.RevenueVariation != nil {
		base.RevenueVariation = *o.RevenueVariation
	}
	if o.EmployeeVariation != nil {
		base.EmployeeVariation = *o.EmployeeVariation
	}
	if o.WageVariation != nil {
		base.WageVariation = *o.WageVariation
	}
	if o.EquipmentValueVariation != nil {
		base.EquipmentValueVariation = *o.EquipmentValueVariation
	}
	if o.Seed != nil {
		seed := *o.Seed
		base.Seed = &seed
	}
	return base
}

// Breakdown splits a downtime cost into its components.
type Breakdown struct {
	RevenueLoss  float64 `json:"revenue_loss"`
	LaborCost    float64 `json:"labor_cost"`
	Depreciation float64 `json:"depreciation"`
	TotalCost    float64 `json:"total_cost"`
}

// Cost evaluates the downtime cost formula for one set of driver values.
func Cost(downtimeHours, revenuePerHour, affectedEmployees, hourlyWage, equipmentValue float64) Breakdown {
	revenueLoss := downtimeHours * revenuePerHour
	laborCost := downtimeHours * affectedEmployees * hourlyWage
	depreciation := equipmentValue * AnnualDepreciationRate * (downtimeHours / HoursPerYear)
	return Breakdown{
		RevenueLoss:  revenueLoss,
		LaborCost:    laborCost,
		Depreciation: depreciation,
		TotalCost:    revenueLoss + laborCost + depreciation,
	}
}

// ExpectedCost is the deterministic cost at the parameter means.
func ExpectedCost(downtimeHours float64, p CostParameters) Breakdown {
	return Cost(downtimeHours, p.RevenuePerHour, p.AffectedEmployees, p.HourlyWage, p.EquipmentValue)
}

package engine

import (
	"fmt"
	"math"
	"math/rand/v2"

	"downtime-mcs/internal/equipment"
)

type GeneratorConfig struct {
	Scenario     string // "mild", "sparse" or "chaos"
	Distribution string // "uniform" or "weibull"
	Count        int
	Seed         uint64
}

type department struct {
	id      string
	revenue float64
}

type template struct {
	name     string
	kind     string
	category string
	minValue float64
	maxValue float64
	minCrit  float64
	maxCrit  float64
}

var departments = []department{
	{"DEP-RAD", 4200},
	{"DEP-ICU", 6800},
	{"DEP-LAB", 1900},
	{"DEP-OR", 9500},
	{"DEP-ER", 5100},
}

var templates = []template{
	{"CT Scanner", "imaging", "Radiology", 800000, 2500000, 7, 10},
	{"MRI Scanner", "imaging", "Radiology", 1200000, 3000000, 7, 10},
	{"Ventilator", "life_support", "Critical Care", 25000, 60000, 8, 10},
	{"Infusion Pump", "therapy", "Critical Care", 2000, 8000, 4, 8},
	{"Blood Analyzer", "diagnostics", "Laboratory", 40000, 150000, 3, 7},
	{"Anesthesia Machine", "life_support", "Surgery", 30000, 90000, 8, 10},
	{"Patient Monitor", "monitoring", "Emergency", 3000, 20000, 5, 9},
}

// Generate builds a synthetic equipment fleet. The same config and seed
// always yield the same fleet.
func Generate(cfg GeneratorConfig) []equipment.Equipment {
	rng := rand.New(rand.NewPCG(cfg.Seed, 0))
	items := make([]equipment.Equipment, 0, cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		tpl := templates[i%len(templates)]
		dep := departments[rng.IntN(len(departments))]

		// 1. Asset value
		var value float64
		if cfg.Distribution == "weibull" {
			// Long tail toward the expensive end of the template range
			value = tpl.minValue + weibullSample(rng, 1.2, (tpl.maxValue-tpl.minValue)/3)
		} else {
			value = tpl.minValue + rng.Float64()*(tpl.maxValue-tpl.minValue)
		}

		// 2. Criticality
		crit := tpl.minCrit + rng.Float64()*(tpl.maxCrit-tpl.minCrit)
		crit = math.Round(crit*10) / 10

		// 3. Department revenue
		var revenue *float64
		switch cfg.Scenario {
		case "sparse":
			if rng.Float64() >= 0.3 {
				r := dep.revenue
				revenue = &r
			}
		case "chaos":
			r := dep.revenue * (0.2 + rng.Float64()*4)
			if rng.Float64() < 0.15 {
				r = 0
			}
			revenue = &r
		default:
			r := dep.revenue
			revenue = &r
		}

		items = append(items, equipment.Equipment{
			ID:                     fmt.Sprintf("EQ-%04d", i+1),
			Name:                   fmt.Sprintf("%s #%d", tpl.name, i/len(templates)+1),
			Type:                   tpl.kind,
			Category:               tpl.category,
			Criticality:            crit,
			Value:                  math.Round(value),
			DepartmentID:           dep.id,
			EstimatedRevenueHourly: revenue,
		})
	}

	return items
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes the fleet as a JSONL snapshot readable by equipment.FileStore.
func Save(path string, items []equipment.Equipment) error {
	store := equipment.NewFileStore(path)
	store.Put(items...)
	return store.Save()
}

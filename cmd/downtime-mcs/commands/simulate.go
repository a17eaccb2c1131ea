package commands

import (
	"downtime-mcs/internal/simulation"

	"github.com/spf13/cobra"
)

var simulateFlags struct {
	hours      float64
	revenue    float64
	employees  float64
	wage       float64
	value      float64
	iterations int
	seed       uint64
	configPath string
	trials     bool
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate downtime cost for explicit cost drivers",
	Example: `  downtime-mcs simulate --hours 8 --revenue 1200 --employees 6 --value 250000
  downtime-mcs simulate --hours 8 --revenue 1200 --employees 6 --config variations.yaml --seed 7`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := simulateFlags

		overrides := &simulation.Overrides{}
		if f.configPath != "" {
			if err := loadYAML(f.configPath, overrides); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("iterations") {
			overrides.Iterations = &f.iterations
		}
		if cmd.Flags().Changed("seed") {
			overrides.Seed = &f.seed
		}

		base := simulation.CostParameters{
			RevenuePerHour:    f.revenue,
			AffectedEmployees: f.employees,
			HourlyWage:        f.wage,
			EquipmentValue:    f.value,
		}
		res, err := svc.RunSimulation(cmd.Context(), f.hours, base, overrides)
		if err != nil {
			return err
		}
		if !f.trials {
			res = res.WithoutTrials()
		}
		return printJSON(cmd, res)
	},
}

func init() {
	flags := simulateCmd.Flags()
	flags.Float64Var(&simulateFlags.hours, "hours", 0, "downtime duration in hours")
	flags.Float64Var(&simulateFlags.revenue, "revenue", 0, "revenue lost per hour")
	flags.Float64Var(&simulateFlags.employees, "employees", 0, "expected number of affected employees")
	flags.Float64Var(&simulateFlags.wage, "wage", simulation.DefaultHourlyWage, "hourly wage per affected employee")
	flags.Float64Var(&simulateFlags.value, "value", 0, "equipment value")
	flags.IntVar(&simulateFlags.iterations, "iterations", simulation.DefaultIterations, "number of trials")
	flags.Uint64Var(&simulateFlags.seed, "seed", 0, "seed for a reproducible run")
	flags.StringVar(&simulateFlags.configPath, "config", "", "YAML file with simulation config overrides")
	flags.BoolVar(&simulateFlags.trials, "trials", false, "include every trial in the output")
	_ = simulateCmd.MarkFlagRequired("hours")
	rootCmd.AddCommand(simulateCmd)
}

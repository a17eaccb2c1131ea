package commands

import (
	"downtime-mcs/internal/simulation"

	"github.com/spf13/cobra"
)

var sensitivityFlags struct {
	hours      float64
	variations string
}

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity <id>",
	Short: "Sweep each cost driver of a piece of equipment",
	Long: `Runs a reduced simulation for every variation of every cost driver.
A YAML variations file replaces the default variations per driver, e.g.

  revenuePerHour: [-0.5, 0.5]
  hourlyWage: [0.1]`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var variations simulation.VariationSet
		if sensitivityFlags.variations != "" {
			if err := loadYAML(sensitivityFlags.variations, &variations); err != nil {
				return err
			}
		}
		sa, err := svc.RunSensitivityAnalysis(cmd.Context(), args[0], sensitivityFlags.hours, variations)
		if err != nil {
			return err
		}
		return printJSON(cmd, sa)
	},
}

func init() {
	sensitivityCmd.Flags().Float64Var(&sensitivityFlags.hours, "hours", 0, "downtime duration in hours")
	sensitivityCmd.Flags().StringVar(&sensitivityFlags.variations, "variations", "", "YAML file with variations per cost driver")
	_ = sensitivityCmd.MarkFlagRequired("hours")
	rootCmd.AddCommand(sensitivityCmd)
}

package commands

import (
	"github.com/spf13/cobra"
)

var equipmentFlags struct {
	hours  float64
	trials bool
}

var equipmentCmd = &cobra.Command{
	Use:   "equipment <id>",
	Short: "Simulate downtime cost for a piece of equipment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sim, err := svc.RunEquipmentSimulation(cmd.Context(), args[0], equipmentFlags.hours)
		if err != nil {
			return err
		}
		if !equipmentFlags.trials {
			copied := *sim
			copied.Result = sim.Result.WithoutTrials()
			sim = &copied
		}
		return printJSON(cmd, sim)
	},
}

func init() {
	equipmentCmd.Flags().Float64Var(&equipmentFlags.hours, "hours", 0, "downtime duration in hours")
	equipmentCmd.Flags().BoolVar(&equipmentFlags.trials, "trials", false, "include every trial in the output")
	_ = equipmentCmd.MarkFlagRequired("hours")
	rootCmd.AddCommand(equipmentCmd)
}

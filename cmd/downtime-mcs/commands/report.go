package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var reportFlags struct {
	hours float64
	out   string
	open  bool
}

var reportCmd = &cobra.Command{
	Use:   "report <id>",
	Short: "Generate a risk report for a piece of equipment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := svc.GenerateRiskReport(cmd.Context(), args[0], reportFlags.hours)
		if err != nil {
			return err
		}

		out := reportFlags.out
		if out == "" && reportFlags.open {
			out = filepath.Join(cfg.DataPath, "reports", r.ReportID+".json")
		}
		if out == "" {
			return printJSON(cmd, r)
		}

		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		log.Info().Str("path", out).Str("report", r.ReportID).Msg("Risk report written")
		fmt.Fprintln(cmd.OutOrStdout(), out)

		if reportFlags.open {
			return browser.OpenFile(out)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().Float64Var(&reportFlags.hours, "hours", 0, "downtime duration in hours")
	reportCmd.Flags().StringVar(&reportFlags.out, "out", "", "write the report to this file instead of stdout")
	reportCmd.Flags().BoolVar(&reportFlags.open, "open", false, "open the written report")
	_ = reportCmd.MarkFlagRequired("hours")
	rootCmd.AddCommand(reportCmd)
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"downtime-mcs/internal/config"
	"downtime-mcs/internal/equipment"
	"downtime-mcs/internal/logging"
	"downtime-mcs/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	provider equipment.Provider
	svc      *service.Service
)

var rootCmd = &cobra.Command{
	Use:   "downtime-mcs",
	Short: "Monte-Carlo estimation of equipment downtime cost",
	Long: `downtime-mcs estimates the financial impact of equipment downtime with
Monte-Carlo simulation. It runs as an MCP server over stdio (the default) or
as one-shot commands that print JSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(logging.OptionsFromEnv(verbose)); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		provider, err = equipment.NewProvider(cmd.Context(), cfg.Equipment)
		if err != nil {
			return fmt.Errorf("failed to initialize equipment provider: %w", err)
		}
		svc = service.New(provider, cfg.Service)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("equipmentSource", string(cfg.Equipment.Source)).
			Msg("downtime-mcs starting")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if c, ok := provider.(interface{ Close() }); ok {
			c.Close()
		}
	},
	RunE: runServe,
}

// Execute runs the root command until it returns or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Version = Version
}

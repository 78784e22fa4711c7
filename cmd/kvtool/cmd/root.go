package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mantoudev/hbase/config"
)

type configKey struct{}

// NewRootCmd builds the kvtool command tree.
func NewRootCmd() *cobra.Command {
	var undoLogger func()

	rootCmd := &cobra.Command{
		Use:   "kvtool",
		Short: "Inspect and build packed record streams",
		Long: `kvtool reads and writes streams of length-framed packed records.

It imports records from tab separated text, dumps and sorts streams, checks
their ordering under a comparator and builds block indexes and bloom filters.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				loaded, err := config.LoadConfig(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("comparator") {
				cfg.Comparator, _ = cmd.Flags().GetString("comparator")
			}
			if cmd.Flags().Changed("compression") {
				cfg.Compression, _ = cmd.Flags().GetString("compression")
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := config.BuildLogger(cfg.Logging.Level)
			if err != nil {
				return err
			}
			undoLogger = zap.ReplaceGlobals(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
			if undoLogger != nil {
				undoLogger()
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("comparator", "standard", "Record ordering (standard, catalog, raw)")
	rootCmd.PersistentFlags().String("compression", "none", "Stream compression (none, snappy, zstd)")

	rootCmd.AddCommand(
		newImportCmd(),
		newDumpCmd(),
		newCheckCmd(),
		newSortCmd(),
		newIndexCmd(),
		newMidpointCmd(),
	)
	return rootCmd
}

func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

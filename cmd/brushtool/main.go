// brushtool replays terrain editing scripts against a fresh heightmap and
// splat maps, without a renderer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-editor/internal/config"
	"github.com/Faultbox/midgard-editor/internal/logger"
)

var (
	overrides config.Overrides
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "brushtool",
	Short:         "Headless terrain brush runner",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(&overrides)
		if err != nil {
			return err
		}
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Run a stroke script and print the resulting terrain summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or write the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to path or the user config directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cfg.Save()
		}
		return cfg.SaveTo(args[0])
	},
}

func init() {
	overrides.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	script, err := LoadScript(args[0])
	if err != nil {
		return err
	}
	logger.Info("replaying script",
		zap.String("script", args[0]),
		zap.Int("steps", len(script.Steps)),
		zap.Int("terrain_size", cfg.Terrain.Size))

	summary, err := Replay(cmd.Context(), cfg, script)
	if err != nil {
		return err
	}
	summary.Print(cmd.OutOrStdout())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"

	"github.com/bnema/gdkevents/internal/config"
	"github.com/bnema/gdkevents/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "gdkevents",
		Short: "gdkevents - GDK event translation for Quartz",
		Long: `gdkevents replays Quartz native events through the GDK event translation
layer and shows the events, crossings and grab changes they produce.

Input comes from YAML scenarios describing a window tree and a script of
native events, or from binary traces recorded with --record.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/gdkevents/gdkevents.toml)")

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	config.SetConfigPath(cfgFile)
	if err := config.Init(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if level := config.Get().Logging.LogLevel; level != "" {
		logger.SetLevel(level)
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/bnema/gdkevents/internal/config"
	"github.com/bnema/gdkevents/internal/logger"
	"github.com/bnema/gdkevents/internal/ui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Step through a scenario or trace interactively",
	Long: `Inspect opens a terminal UI that runs one native event per key press and
shows the translated events next to the pointer window, focus window and
active grabs.

Settings changes saved to the config file apply from the next step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		windows, _ := cmd.Flags().GetString("windows")
		s, err := openSession(args[0], windows)
		if err != nil {
			return err
		}

		runner := ui.NewProgramRunner(ui.DefaultProgramConfig())
		if config.Watch(func(c *config.Config) {
			logger.Debug("config reloaded", "double_click_time", c.Events.DoubleClickTime,
				"max_scroll_steps", c.Events.MaxScrollSteps)
			runner.Send(ui.LogMsg{
				Level: "info",
				Message: fmt.Sprintf("settings reloaded: double-click %d ms / %d px, scroll cap %d",
					c.Events.DoubleClickTime, c.Events.DoubleClickDistance, c.Events.MaxScrollSteps),
			})
		}) {
			logger.Debug("watching config", "path", config.GetConfigPath())
		}

		return runner.Run(cmd.Context(), ui.NewInspectorModel(s))
	},
}

func init() {
	inspectCmd.Flags().String("windows", "", "scenario providing the window tree for a trace")
}

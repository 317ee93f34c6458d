package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/bnema/gdkevents/internal/backend/quartz"
	"github.com/bnema/gdkevents/internal/config"
	"github.com/bnema/gdkevents/internal/logger"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gdkevents configuration",
	Long:  `Manage the platform input settings and backend options.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Config file: %s\n\n", config.GetConfigPath())

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		rows := [][2]string{
			{"events.double_click_time", fmt.Sprintf("%d ms", cfg.Events.DoubleClickTime)},
			{"events.double_click_distance", fmt.Sprintf("%d px", cfg.Events.DoubleClickDistance)},
			{"events.max_scroll_steps", strconv.Itoa(cfg.Events.MaxScrollSteps)},
			{"quartz.screen_height", strconv.FormatFloat(cfg.Quartz.ScreenHeight, 'f', -1, 64)},
			{"quartz.locale_charset", cfg.Quartz.LocaleCharset},
			{"logging.log_level", cfg.Logging.LogLevel},
		}
		for _, r := range rows {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", r[0], r[1]); err != nil {
				return err
			}
		}
		return w.Flush()
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save current configuration to file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(); err != nil {
			return err
		}
		logger.Infof("Configuration saved to: %s", config.GetConfigPath())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.GetConfigPath()
		if _, err := os.Stat(configPath); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				logger.Infof("Configuration file already exists at: %s", configPath)
				logger.Info("Use --force to overwrite")
				return nil
			}
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		if interactive {
			cfg := *config.Get()
			if err := runSettingsForm(&cfg); err != nil {
				return err
			}
			if err := config.UpdateEvents(cfg.Events); err != nil {
				return err
			}
			if err := config.UpdateQuartz(cfg.Quartz); err != nil {
				return err
			}
		} else if err := config.Save(); err != nil {
			return err
		}

		logger.Infof("Configuration initialized at: %s", configPath)
		return nil
	},
}

// charsets offered by the settings form
var charsets = []string{"UTF-8", "ISO-8859-1", "windows-1252", "Shift_JIS", "EUC-JP", "KOI8-R"}

func runSettingsForm(cfg *config.Config) error {
	clickTime := strconv.FormatUint(uint64(cfg.Events.DoubleClickTime), 10)
	clickDistance := strconv.Itoa(cfg.Events.DoubleClickDistance)
	maxScroll := strconv.Itoa(cfg.Events.MaxScrollSteps)
	screenHeight := strconv.FormatFloat(cfg.Quartz.ScreenHeight, 'f', -1, 64)
	charset := cfg.Quartz.LocaleCharset

	options := make([]huh.Option[string], len(charsets))
	for i, c := range charsets {
		options[i] = huh.NewOption(c, c)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Double-click time").
				Description("Longest gap between presses of a multi-click, in milliseconds").
				Value(&clickTime).
				Validate(validateUint),
			huh.NewInput().
				Title("Double-click distance").
				Description("Pixels presses may be apart; negative disables the check").
				Value(&clickDistance).
				Validate(validateInt),
			huh.NewInput().
				Title("Maximum scroll steps").
				Description("Cap on discrete scroll events per native event; 0 for the built-in 1024").
				Value(&maxScroll).
				Validate(validateInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Screen height").
				Description("Height of the main screen in points").
				Value(&screenHeight).
				Validate(validatePositive),
			huh.NewSelect[string]().
				Title("Locale charset").
				Description("Encoding of the legacy key string").
				Options(options...).
				Value(&charset),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("configuration cancelled: %w", err)
	}
	return applySettings(cfg, clickTime, clickDistance, maxScroll, screenHeight, charset)
}

// applySettings parses the form values into cfg.
func applySettings(cfg *config.Config, clickTime, clickDistance, maxScroll, screenHeight, charset string) error {
	t, err := strconv.ParseUint(clickTime, 10, 32)
	if err != nil {
		return fmt.Errorf("double-click time: %w", err)
	}
	d, err := strconv.Atoi(clickDistance)
	if err != nil {
		return fmt.Errorf("double-click distance: %w", err)
	}
	m, err := strconv.Atoi(maxScroll)
	if err != nil {
		return fmt.Errorf("maximum scroll steps: %w", err)
	}
	h, err := strconv.ParseFloat(screenHeight, 64)
	if err != nil || h <= 0 {
		return fmt.Errorf("screen height must be a positive number")
	}
	if _, err := quartz.NewLocaleEncoder(charset); err != nil {
		return err
	}
	cfg.Events = config.EventsConfig{DoubleClickTime: uint32(t), DoubleClickDistance: d, MaxScrollSteps: m}
	cfg.Quartz = config.QuartzConfig{ScreenHeight: h, LocaleCharset: charset}
	return nil
}

func validateUint(s string) error {
	_, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("enter a whole number of milliseconds")
	}
	return nil
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("enter a whole number")
	}
	return nil
}

func validatePositive(s string) error {
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || h <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().Bool("force", false, "Force overwrite existing configuration")
	configInitCmd.Flags().BoolP("interactive", "i", false, "Edit the settings in a form before saving")
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/gdkevents/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateHome points HOME at a temp dir and clears viper and flag state
// left over from earlier commands.
func isolateHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	viper.Reset()
	config.Set(nil)
	t.Cleanup(func() {
		viper.Reset()
		config.Set(nil)
		config.SetConfigPath("")
	})
	return dir
}

// executeCommand runs root with args and returns what it printed.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	_ = root.PersistentFlags().Set("config", "")
	for _, name := range []string{"windows", "record"} {
		_ = replayCmd.Flags().Set(name, "")
	}
	_ = replayCmd.Flags().Set("summary", "false")
	_ = configInitCmd.Flags().Set("force", "false")

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestConfigInit(t *testing.T) {
	home := isolateHome(t)
	configPath := filepath.Join(home, ".config", "gdkevents", "gdkevents.toml")

	t.Run("creates config file when it doesn't exist", func(t *testing.T) {
		_, err := executeCommand(rootCmd, "config", "init")
		require.NoError(t, err)
		assert.FileExists(t, configPath)
	})

	t.Run("doesn't overwrite existing config without force", func(t *testing.T) {
		viper.Reset()
		require.NoError(t, os.WriteFile(configPath, []byte("[events]\nmax_scroll_steps = 2\n"), 0o644))

		_, err := executeCommand(rootCmd, "config", "init")
		require.NoError(t, err)

		content, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Equal(t, "[events]\nmax_scroll_steps = 2\n", string(content))
	})

	t.Run("overwrites with force flag", func(t *testing.T) {
		viper.Reset()
		require.NoError(t, os.WriteFile(configPath, []byte("[events]\nmax_scroll_steps = 2\n"), 0o644))

		_, err := executeCommand(rootCmd, "config", "init", "--force")
		require.NoError(t, err)

		content, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "double_click_time")
	})
}

func TestConfigShow(t *testing.T) {
	isolateHome(t)

	out, err := executeCommand(rootCmd, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "events.double_click_time")
	assert.Contains(t, out, "250 ms")
	assert.Contains(t, out, "quartz.locale_charset")
	assert.Contains(t, out, "UTF-8")
}

func TestConfigValidation(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "gdkevents")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gdkevents.toml"), []byte("[events\nmax_scroll_steps = 2\n"), 0o644))

	_, err := executeCommand(rootCmd, "config", "show")
	assert.ErrorContains(t, err, "failed to load config")
}

func TestApplySettings(t *testing.T) {
	tests := []struct {
		name    string
		values  [5]string
		wantErr bool
	}{
		{"valid", [5]string{"300", "-1", "0", "1440", "ISO-8859-1"}, false},
		{"negative time", [5]string{"-3", "5", "64", "1080", "UTF-8"}, true},
		{"bad distance", [5]string{"250", "far", "64", "1080", "UTF-8"}, true},
		{"bad scroll", [5]string{"250", "5", "lots", "1080", "UTF-8"}, true},
		{"zero height", [5]string{"250", "5", "64", "0", "UTF-8"}, true},
		{"unknown charset", [5]string{"250", "5", "64", "1080", "klingon"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig
			v := tt.values
			err := applySettings(&cfg, v[0], v[1], v[2], v[3], v[4])
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, config.DefaultConfig, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, config.EventsConfig{DoubleClickTime: 300, DoubleClickDistance: -1, MaxScrollSteps: 0}, cfg.Events)
			assert.Equal(t, config.QuartzConfig{ScreenHeight: 1440, LocaleCharset: "ISO-8859-1"}, cfg.Quartz)
		})
	}
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateUint("250"))
	assert.Error(t, validateUint("-1"))
	assert.NoError(t, validateInt("-1"))
	assert.Error(t, validateInt("1.5"))
	assert.NoError(t, validatePositive("900.5"))
	assert.Error(t, validatePositive("0"))
}

func TestVersion(t *testing.T) {
	isolateHome(t)
	out, err := executeCommand(rootCmd, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gdkevents "+Version)
}

package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bnema/gdkevents/internal/backend/quartz"
	"github.com/bnema/gdkevents/internal/config"
	"github.com/bnema/gdkevents/internal/scenario"
	"github.com/bnema/gdkevents/internal/trace"
)

// openSession loads a scenario file, or a trace whose windows are described
// by the scenario at windowsPath.
func openSession(path, windowsPath string) (*scenario.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var sc *scenario.Scenario
	var natives []quartz.NativeEvent
	if trace.IsTrace(data) {
		if windowsPath == "" {
			return nil, fmt.Errorf("%s is a trace: use --windows to name the scenario describing its windows", path)
		}
		natives, err = trace.ReadAll(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to read trace %s: %w", path, err)
		}
		sc, err = scenario.Load(windowsPath)
	} else {
		sc, err = scenario.Parse(data)
		if err != nil {
			err = fmt.Errorf("%s: %w", path, err)
		}
	}
	if err != nil {
		return nil, err
	}

	opts, err := sessionOptions(config.Get())
	if err != nil {
		return nil, err
	}
	s, err := scenario.NewSession(sc, opts)
	if err != nil {
		return nil, err
	}
	if natives != nil {
		s.UseNatives(natives)
	}
	return s, nil
}

func sessionOptions(cfg *config.Config) (scenario.Options, error) {
	enc, err := quartz.NewLocaleEncoder(cfg.Quartz.LocaleCharset)
	if err != nil {
		return scenario.Options{}, fmt.Errorf("invalid quartz.locale_charset: %w", err)
	}
	return scenario.Options{
		Settings:     config.Settings(),
		ScreenHeight: cfg.Quartz.ScreenHeight,
		Backend:      []quartz.Option{quartz.WithEncoder(enc)},
	}, nil
}

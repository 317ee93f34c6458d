package ui

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bnema/gdkevents/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// ProgramConfig holds configuration for running a UI program
type ProgramConfig struct {
	ShutdownConfig ShutdownConfig
	AltScreen      bool
	Input          io.Reader
	Output         io.Writer
}

// DefaultProgramConfig returns default configuration
func DefaultProgramConfig() ProgramConfig {
	return ProgramConfig{
		ShutdownConfig: DefaultShutdownConfig(),
		AltScreen:      true,
		Input:          os.Stdin,
		Output:         os.Stdout,
	}
}

// UIModel interface that all UI models must implement
type UIModel interface {
	tea.Model
	// SetBase allows the model to store reference to base UI
	SetBase(base *BaseUI)
	// OnShutdown is called during shutdown
	OnShutdown() error
}

// ProgramRunner manages the lifecycle of a Bubble Tea program with proper shutdown
type ProgramRunner struct {
	config ProgramConfig
	base   *BaseUI
	logger *log.Logger

	mu      sync.Mutex
	program *tea.Program
}

// NewProgramRunner creates a new program runner
func NewProgramRunner(config ProgramConfig) *ProgramRunner {
	return &ProgramRunner{
		config: config,
		logger: logger.Named("ui"),
	}
}

// Run starts the UI program with the given model and blocks until it exits
func (r *ProgramRunner) Run(ctx context.Context, model UIModel) error {
	r.base = NewBaseUI(ctx, r.config.ShutdownConfig)
	r.base.SetOnShutdown(model.OnShutdown)
	model.SetBase(r.base)

	var opts []tea.ProgramOption
	if r.config.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if r.config.Input != nil {
		opts = append(opts, tea.WithInput(r.config.Input))
	}
	if r.config.Output != nil {
		opts = append(opts, tea.WithOutput(r.config.Output))
	}
	program := tea.NewProgram(model, opts...)
	r.mu.Lock()
	r.program = program
	r.mu.Unlock()

	// Run in a goroutine to handle context cancellation
	errCh := make(chan error, 1)
	go func() {
		_, err := program.Run()
		errCh <- err
	}()

	var runErr error
	select {
	case err := <-errCh:
		runErr = err
	case <-r.base.Context().Done():
		program.Quit()

		select {
		case err := <-errCh:
			runErr = err
		case <-time.After(2 * time.Second):
			// Force kill the program if it's not responding
			program.Kill()
			<-errCh
		}
	}

	if r.base.onShutdown != nil {
		done := make(chan error, 1)
		go func() {
			done <- r.base.onShutdown()
		}()

		select {
		case err := <-done:
			if err != nil {
				r.logger.Error("Shutdown callback error", "error", err)
			}
		case <-time.After(r.config.ShutdownConfig.GracePeriod):
			r.logger.Warn("Shutdown callback timed out")
		}
	}

	return runErr
}

// Send sends a message to the running program. Messages sent before Run
// are dropped.
func (r *ProgramRunner) Send(msg tea.Msg) {
	r.mu.Lock()
	program := r.program
	r.mu.Unlock()
	if program != nil {
		program.Send(msg)
	}
}

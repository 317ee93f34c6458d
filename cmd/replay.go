package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/gdkevents/internal/backend/quartz"
	"github.com/bnema/gdkevents/internal/logger"
	"github.com/bnema/gdkevents/internal/trace"
	"github.com/bnema/gdkevents/internal/ui"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Run a scenario or trace and print the translated events",
	Long: `Replay feeds every native event of a scenario (or a recorded trace) through
the Quartz backend and prints the events each one produced.

Traces carry native events only; pass the scenario describing their windows
with --windows.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().String("windows", "", "scenario providing the window tree for a trace")
	replayCmd.Flags().String("record", "", "write the native events to a trace file")
	replayCmd.Flags().Bool("summary", false, "only print the summary line")
}

func runReplay(cmd *cobra.Command, args []string) error {
	windows, _ := cmd.Flags().GetString("windows")
	record, _ := cmd.Flags().GetString("record")
	summaryOnly, _ := cmd.Flags().GetBool("summary")

	s, err := openSession(args[0], windows)
	if err != nil {
		return err
	}

	if record != "" {
		if err := recordTrace(record, s.Natives()); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	var produced, consumed int
	for _, r := range s.Run() {
		produced += len(r.Events)
		if r.Consumed {
			consumed++
		}
		if !summaryOnly {
			fmt.Fprintln(out, ui.RenderResult(r, s.Windows.Tree))
		}
	}
	fmt.Fprintf(out, "%d steps, %d consumed, %d events\n", s.Len(), consumed, produced)
	return nil
}

func recordTrace(path string, natives []quartz.NativeEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace: %w", err)
	}
	if err := trace.WriteAll(f, natives); err != nil {
		f.Close()
		return fmt.Errorf("failed to write trace: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	logger.Infof("Recorded %d native events to %s", len(natives), path)
	return nil
}

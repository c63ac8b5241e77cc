package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/psantana5/etatrack/internal/report"
	"github.com/psantana5/etatrack/pkg/progress"
)

var (
	pipeTotal  int
	pipeWindow int
	pipeEvery  int
)

var pipeCmd = &cobra.Command{
	Use:   "pipe",
	Short: "Track ETA for a shell pipeline, one unit per line",
	Long: `Pipe reads stdin, copies every line to stdout unchanged, and counts
each line as one completed unit out of --total. Progress and the ETA
go to stderr so the data path stays clean.

Example:
  pg_dump db | etatrack pipe --total 5000000 | gzip > dump.sql.gz
  tar tf backup.tar | etatrack pipe --total 120000 --every 5000 > /dev/null`,
	RunE: runPipe,
}

func init() {
	rootCmd.AddCommand(pipeCmd)

	pipeCmd.Flags().IntVar(&pipeTotal, "total", 0, "Total number of lines expected on stdin")
	pipeCmd.Flags().IntVar(&pipeWindow, "window", 10, "How many recent lines the estimate is based on")
	pipeCmd.Flags().IntVar(&pipeEvery, "every", 1000, "Report progress every N lines (0 = quiet)")
}

func runPipe(cmd *cobra.Command, args []string) error {
	if pipeTotal <= 0 {
		return fmt.Errorf("--total must be positive")
	}

	log := logger()

	runID := report.NewRunID()
	tracker := progress.NewTracker(pipeWindow, pipeTotal)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := bufio.NewWriter(os.Stdout)

	for scanner.Scan() {
		if _, err := out.Write(scanner.Bytes()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := out.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		tracker.Tick()
		snap := tracker.Snapshot()
		if pipeEvery > 0 && snap.Completed%pipeEvery == 0 {
			fmt.Fprintf(os.Stderr, "%d/%d (%s) eta %s\n",
				snap.Completed, snap.Total,
				progress.FormatPercent(snap.Percent),
				progress.FormatETA(snap.ETA()))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	result := report.New(runID, "pipe", tracker.Snapshot(), report.CollectHost(), time.Now())
	result.LogSummary(log)
	return nil
}

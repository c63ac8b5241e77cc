package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/etatrack/internal/report"
	"github.com/psantana5/etatrack/internal/server"
	"github.com/psantana5/etatrack/internal/shutdown"
	"github.com/psantana5/etatrack/internal/tracing"
	"github.com/psantana5/etatrack/internal/workload"
	"github.com/psantana5/etatrack/pkg/progress"
)

const appVersion = "0.1.0"

var (
	runTotal    int
	runWindow   int
	runInterval time.Duration
	runJitter   time.Duration
	runListen   string
	runReport   string
	runEvery    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulated task and track its ETA",
	Long: `Run drives a simulated task of --total units, one unit roughly every
--interval, and tracks the estimated time to completion as units
finish.

With --listen the run also serves /status, /metrics and /healthz on
the given address, so a remote "etatrack watch" or a Prometheus
scraper can follow it.

Example:
  etatrack run --total 100 --interval 50ms
  etatrack run --total 5000 --interval 20ms --jitter 15ms --listen :8090
  etatrack run --total 200 --report json > result.json`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runTotal, "total", 100, "Total number of units in the task")
	runCmd.Flags().IntVar(&runWindow, "window", 10, "How many recent completions the estimate is based on")
	runCmd.Flags().DurationVar(&runInterval, "interval", 50*time.Millisecond, "Target time per unit (0 = as fast as possible)")
	runCmd.Flags().DurationVar(&runJitter, "jitter", 0, "Random extra delay per unit, up to this much")
	runCmd.Flags().StringVar(&runListen, "listen", "", "Serve /status and /metrics on this address (e.g. :8090)")
	runCmd.Flags().StringVar(&runReport, "report", "text", "Final report format: text, json or yaml")
	runCmd.Flags().IntVar(&runEvery, "every", 10, "Log progress every N units (0 = quiet)")
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logger()

	runID := report.NewRunID()
	tracker := progress.NewTracker(runWindow, runTotal)

	mgr := shutdown.New(10*time.Second, log)
	mgr.Notify()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if runListen != "" {
		tp, err := tracing.Init(ctx, tracing.Config{
			ServiceName:    "etatrack",
			ServiceVersion: appVersion,
			Environment:    viper.GetString("tracing.environment"),
			Endpoint:       viper.GetString("tracing.endpoint"),
			SampleRatio:    viper.GetFloat64("tracing.sample_ratio"),
			Enabled:        viper.GetBool("tracing.enabled"),
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		mgr.Register(tp.Shutdown)

		srv := server.New(server.Config{
			Addr:       runListen,
			Tracker:    tracker,
			RunID:      runID,
			Log:        log,
			Middleware: []mux.MiddlewareFunc{tracing.HTTPMiddleware(tp)},
		})
		mgr.RegisterHTTPServer("status", srv)
		go func() {
			if err := srv.Start(); err != nil {
				log.Error().Err(err).Msg("status server failed")
				mgr.Trigger()
			}
		}()
	}

	log.Info().
		Str("run_id", runID).
		Int("total", runTotal).
		Int("window", runWindow).
		Dur("interval", runInterval).
		Msg("starting run")

	source := workload.New(workload.Config{
		Units:    runTotal,
		Interval: runInterval,
		Jitter:   runJitter,
	})
	units := source.Run(ctx)

loop:
	for {
		select {
		case _, ok := <-units:
			if !ok {
				break loop
			}
			tracker.Tick()
			snap := tracker.Snapshot()
			if runEvery > 0 && snap.Completed%runEvery == 0 {
				log.Info().
					Int("completed", snap.Completed).
					Int("total", snap.Total).
					Str("state", snap.State).
					Str("eta", progress.FormatETA(snap.ETA())).
					Msg("progress")
			}
		case <-mgr.Done():
			cancel()
			break loop
		}
	}

	snap := tracker.Snapshot()
	result := report.New(runID, "run", snap, report.CollectHost(), time.Now())
	result.LogSummary(log)

	mgr.Shutdown()

	return result.Render(os.Stdout, runReport)
}

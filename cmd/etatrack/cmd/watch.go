package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/psantana5/etatrack/internal/retry"
	"github.com/psantana5/etatrack/internal/server"
	"github.com/psantana5/etatrack/pkg/progress"
)

var (
	watchInterval time.Duration
	watchFollow   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [url]",
	Short: "Follow a remote run over HTTP",
	Long: `Watch polls the /status endpoint of a run started with
"etatrack run --listen" and renders its progress.

Example:
  etatrack watch http://localhost:8090
  etatrack watch http://job-runner:8090 --follow
  etatrack watch http://job-runner:8090 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "Poll interval in follow mode")
	watchCmd.Flags().BoolVarP(&watchFollow, "follow", "f", false, "Poll until the run completes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	statusURL := strings.TrimRight(args[0], "/") + "/status"
	client := &http.Client{Timeout: 5 * time.Second}

	if watchFollow && !IsJSONOutput() {
		fmt.Printf("Following %s (press Ctrl+C to stop)...\n\n", statusURL)
	}

	for {
		var status server.StatusResponse
		err := retry.Do(cmd.Context(), retry.DefaultConfig(), func() error {
			return fetchStatus(client, statusURL, &status)
		})
		if err != nil {
			return err
		}

		if IsJSONOutput() {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(status); err != nil {
				return fmt.Errorf("failed to encode status: %w", err)
			}
		} else {
			if watchFollow {
				fmt.Print("\033[H\033[2J") // Clear screen
			}
			renderStatusTable(status)
		}

		if !watchFollow {
			return nil
		}
		if status.Progress.State == "complete" || status.Progress.State == "overrun" {
			if !IsJSONOutput() {
				fmt.Println("\nRun finished")
			}
			return nil
		}

		select {
		case <-cmd.Context().Done():
			return nil
		case <-time.After(watchInterval):
		}
	}
}

func fetchStatus(client *http.Client, url string, out *server.StatusResponse) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to reach run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode status: %w", err)
	}
	return nil
}

func renderStatusTable(status server.StatusResponse) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Run", "Completed", "Total", "Percent", "State", "ETA", "Units/s")
	table.Append(
		shortID(status.RunID),
		strconv.Itoa(status.Progress.Completed),
		strconv.Itoa(status.Progress.Total),
		progress.FormatPercent(status.Progress.Percent),
		status.Progress.State,
		status.ETA,
		fmt.Sprintf("%.2f", status.Progress.UnitsPerSecond),
	)
	table.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

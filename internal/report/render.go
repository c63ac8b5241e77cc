package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/psantana5/etatrack/pkg/progress"
)

// Render writes the result in the requested format: text, json or
// yaml. An empty format means text.
func (r *Result) Render(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(r)
	case "text", "":
		return r.renderText(w)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

func (r *Result) renderText(w io.Writer) error {
	wall := progress.FormatDuration(time.Duration(r.WallTimeMillis) * time.Millisecond)

	fmt.Fprintf(w, "Run %s (%s)\n", r.RunID, r.Kind)
	fmt.Fprintf(w, "  Units:      %d/%d (%s)\n", r.UnitsCompleted, r.UnitsTotal, r.FinalState)
	fmt.Fprintf(w, "  Wall time:  %s\n", wall)
	fmt.Fprintf(w, "  Mean gap:   %dms\n", r.MeanIntervalMillis)
	fmt.Fprintf(w, "  Throughput: %.2f units/s\n", r.UnitsPerSecond)
	fmt.Fprintf(w, "  Host:       %s (%s/%s, %d cores)\n",
		r.Host.Hostname, r.Host.OS, r.Host.Arch, r.Host.CPUCores)
	return nil
}

package progress

import (
	"fmt"
	"time"
)

// FormatETA renders an estimate the way the CLI prints it: seconds
// with millisecond precision, or "unknown" when no estimate exists.
func FormatETA(d time.Duration, ok bool) string {
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// FormatDuration renders d at a human scale, picking the coarsest
// unit that keeps the figure readable.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// FormatPercent renders a 0..100 figure with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

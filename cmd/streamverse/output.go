package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// formatTimeAgo renders t relative to now, or "never" for the zero time.
func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if d := time.Since(t); d >= 0 && d < time.Minute {
		return "just now"
	}
	return humanize.Time(t)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

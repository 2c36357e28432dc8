package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	Args:  cobra.NoArgs,
	RunE:  runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().BoolP("follow", "f", false, "Stream new events as they happen")
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	follow, _ := cmd.Flags().GetBool("follow")
	if follow {
		return followEvents(cmd.Context())
	}

	limit, _ := cmd.Flags().GetInt("limit")
	events, err := newClient().Events(limit)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if jsonOutput {
		printJSON(events)
		return nil
	}

	if len(events.Items) == 0 {
		fmt.Println("No events")
		return nil
	}

	fmt.Printf("Recent Events (%d):\n\n", events.Total)
	fmt.Printf("  %-16s %-28s %-15s\n", "TIME", "TYPE", "ENTITY")
	fmt.Println("  " + strings.Repeat("-", 61))

	for _, e := range events.Items {
		t, _ := time.Parse(time.RFC3339, e.OccurredAt)
		entity := fmt.Sprintf("%s/%d", e.EntityType, e.EntityID)
		fmt.Printf("  %-16s %-28s %-15s\n", formatTimeAgo(t), e.EventType, entity)
	}

	return nil
}

func followEvents(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	if !jsonOutput {
		fmt.Fprintln(os.Stderr, "Following events (Ctrl-C to stop)...")
	}
	return newClient().StreamEvents(ctx, func(ev StreamEvent) error {
		if jsonOutput {
			fmt.Println(string(ev.Data))
			return nil
		}
		fmt.Println(describeEvent(ev))
		return nil
	})
}

// describeEvent renders a streamed event as one line, preferring the
// notification message when there is one.
func describeEvent(ev StreamEvent) string {
	var body struct {
		Message    string `json:"message"`
		Level      string `json:"level"`
		Title      string `json:"title"`
		EntityType string `json:"entity_type"`
		EntityID   int64  `json:"entity_id"`
	}
	_ = json.Unmarshal(ev.Data, &body)

	ts := time.Now().Format("15:04:05")
	switch {
	case body.Message != "":
		return fmt.Sprintf("%s  %-24s [%s] %s", ts, ev.Type, body.Level, body.Message)
	case body.Title != "":
		return fmt.Sprintf("%s  %-24s %s", ts, ev.Type, body.Title)
	case body.EntityID != 0:
		return fmt.Sprintf("%s  %-24s %s/%d", ts, ev.Type, body.EntityType, body.EntityID)
	}
	return fmt.Sprintf("%s  %s", ts, ev.Type)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show and manage viewing history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var historyRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Delete one history entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRemove,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd, historyRemoveCmd)

	historyCmd.Flags().StringP("query", "q", "", "Fuzzy search on title")
	historyCmd.Flags().IntP("limit", "n", 0, "Number of entries (server default when 0)")
	historyClearCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	limit, _ := cmd.Flags().GetInt("limit")

	hist, err := newClient().History(query, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}

	if jsonOutput {
		printJSON(hist)
		return nil
	}

	if len(hist.Items) == 0 {
		fmt.Println("No history")
		return nil
	}

	fmt.Printf("History (%d):\n\n", hist.Total)
	fmt.Printf("  %-22s %-36s %-9s %s\n", "ID", "TITLE", "PROGRESS", "WATCHED")
	fmt.Println("  " + strings.Repeat("-", 84))
	for _, it := range hist.Items {
		progress := "-"
		if it.Progress != nil {
			progress = fmt.Sprintf("%d%%", *it.Progress)
		}
		fmt.Printf("  %-22s %-36s %-9s %s\n", truncate(it.ID, 22), truncate(it.Title, 36), progress, formatTimeAgo(it.AddedAt))
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return fmt.Errorf("refusing to clear history without --yes")
	}

	n, err := newClient().ClearHistory()
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Printf("Removed %d entries\n", n)
	return nil
}

func runHistoryRemove(cmd *cobra.Command, args []string) error {
	if err := newClient().RemoveHistory(args[0]); err != nil {
		return fmt.Errorf("failed to remove: %w", err)
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/streamverse/internal/lists"
)

var watchLaterCmd = &cobra.Command{
	Use:     "watchlater",
	Aliases: []string{"wl"},
	Short:   "Manage your watch-later list",
}

var watchLaterListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the watch-later list",
	Args:  cobra.NoArgs,
	RunE:  runWatchLaterList,
}

var watchLaterAddCmd = &cobra.Command{
	Use:   "add <content-id> <title>",
	Short: "Add a title to the list",
	Args:  cobra.ExactArgs(2),
	RunE:  runWatchLaterAdd,
}

var watchLaterRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove an entry by its list item ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchLaterRemove,
}

var watchLaterToggleCmd = &cobra.Command{
	Use:   "toggle <content-id> [title]",
	Short: "Add the title if it is missing, otherwise remove it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runWatchLaterToggle,
}

var watchLaterCheckCmd = &cobra.Command{
	Use:   "check <content-id>",
	Short: "Report whether a title is on the list",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchLaterCheck,
}

func init() {
	rootCmd.AddCommand(watchLaterCmd)
	watchLaterCmd.AddCommand(watchLaterListCmd, watchLaterAddCmd, watchLaterRemoveCmd, watchLaterToggleCmd, watchLaterCheckCmd)

	watchLaterListCmd.Flags().StringP("query", "q", "", "Fuzzy filter on title")
	watchLaterListCmd.Flags().Bool("refresh", false, "Bypass the server cache")

	for _, c := range []*cobra.Command{watchLaterAddCmd, watchLaterToggleCmd} {
		c.Flags().String("type", string(lists.MediaMovie), "Media type (movie or tv)")
		c.Flags().String("poster", "", "Poster path")
	}
}

func parseContentID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid content ID %q", s)
	}
	return id, nil
}

func runWatchLaterList(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	refresh, _ := cmd.Flags().GetBool("refresh")

	list, err := newClient().WatchLater(query, refresh)
	if err != nil {
		return fmt.Errorf("failed to fetch watch later: %w", err)
	}

	if jsonOutput {
		printJSON(list)
		return nil
	}

	if len(list.Items) == 0 {
		fmt.Println("Watch later is empty")
		return nil
	}

	fmt.Printf("Watch Later (%d):\n\n", list.Total)
	fmt.Printf("  %-22s %-9s %-6s %-36s %s\n", "ID", "CONTENT", "TYPE", "TITLE", "ADDED")
	fmt.Println("  " + strings.Repeat("-", 90))
	for _, it := range list.Items {
		id := it.ID
		if it.Pending {
			id = "(saving)"
		}
		fmt.Printf("  %-22s %-9d %-6s %-36s %s\n",
			truncate(id, 22), it.ContentID, it.MediaType, truncate(it.Title, 36), formatTimeAgo(it.AddedAt))
	}
	if list.FetchedAt != nil {
		fmt.Printf("\nFetched %s\n", formatTimeAgo(*list.FetchedAt))
	}
	return nil
}

func runWatchLaterAdd(cmd *cobra.Command, args []string) error {
	contentID, err := parseContentID(args[0])
	if err != nil {
		return err
	}
	mediaType, _ := cmd.Flags().GetString("type")
	poster, _ := cmd.Flags().GetString("poster")

	item, err := newClient().AddWatchLater(lists.NewItem{
		ContentID:  contentID,
		Title:      args[1],
		PosterPath: poster,
		MediaType:  lists.MediaType(mediaType),
	})
	if err != nil {
		return fmt.Errorf("failed to add: %w", err)
	}

	if jsonOutput {
		printJSON(item)
		return nil
	}
	fmt.Printf("Added %q (item %s)\n", item.Title, item.ID)
	return nil
}

func runWatchLaterRemove(cmd *cobra.Command, args []string) error {
	if err := newClient().RemoveWatchLater(args[0]); err != nil {
		return fmt.Errorf("failed to remove: %w", err)
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}

func runWatchLaterToggle(cmd *cobra.Command, args []string) error {
	contentID, err := parseContentID(args[0])
	if err != nil {
		return err
	}
	show := lists.Show{ID: contentID}
	if len(args) > 1 {
		show.Title = args[1]
	}
	mediaType, _ := cmd.Flags().GetString("type")
	show.MediaType = lists.MediaType(mediaType)
	show.PosterPath, _ = cmd.Flags().GetString("poster")

	res, err := newClient().ToggleWatchLater(show)
	if err != nil {
		return fmt.Errorf("failed to toggle: %w", err)
	}

	if jsonOutput {
		printJSON(res)
		return nil
	}
	if res.Notification != nil {
		fmt.Println(res.Notification.Message)
	}
	if res.Indicator.Member {
		fmt.Println("On watch later")
	} else {
		fmt.Println("Not on watch later")
	}
	return nil
}

func runWatchLaterCheck(cmd *cobra.Command, args []string) error {
	contentID, err := parseContentID(args[0])
	if err != nil {
		return err
	}
	ind, err := newClient().CheckWatchLater(contentID)
	if err != nil {
		return fmt.Errorf("failed to check: %w", err)
	}

	if jsonOutput {
		printJSON(ind)
		return nil
	}
	if ind.Member {
		fmt.Println("yes")
	} else {
		fmt.Println("no")
	}
	return nil
}

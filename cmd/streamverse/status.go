package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	status, err := newClient().Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}

	fmt.Printf("Server:   %s (%s)\n", serverURL, status.Status)
	if status.Version != "" {
		fmt.Printf("Version:  %s\n", status.Version)
	}
	fmt.Printf("Uptime:   %s\n", status.Uptime)
	fmt.Printf("Catalog:  %s\n", enabled(status.Catalog))
	fmt.Printf("Streams:  %s\n", enabled(status.Streams))
	fmt.Printf("SSO:      %s\n", enabled(status.SSOEnabled))
	return nil
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

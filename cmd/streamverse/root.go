package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
	tokenFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "streamverse",
	Short: "CLI client for the streamverse server",
	Long: `streamverse - CLI client for the streamverse server

Manage your watch-later list and viewing history, browse account
settings, and follow live notifications from the terminal.

Run 'streamversed' to start the server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("STREAMVERSE_SERVER", "http://localhost:8585"), "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Session token (defaults to $STREAMVERSE_TOKEN, then the saved login)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("streamverse {{.Version}}\n")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// newClient returns a client for the configured server carrying whatever
// session token is available.
func newClient() *Client {
	return NewClient(serverURL, resolveToken())
}

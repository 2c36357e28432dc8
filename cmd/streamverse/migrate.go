package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/streamverse/internal/config"
	"github.com/vmunix/streamverse/internal/database"
	"github.com/vmunix/streamverse/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|up-one|down|status|version|reset]",
	Short: "Run database migrations against the server's database",
	Long: `Run schema migrations directly against the database named in the
server config. streamversed applies pending migrations on startup, so this
is mostly useful for status checks and rollbacks.`,
	ValidArgs: []string{"up", "up-one", "down", "status", "version", "reset"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	RunE:      runMigrateCmd,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringP("config", "c", "", "Server config path (discovered when empty)")
}

func runMigrateCmd(cmd *cobra.Command, args []string) error {
	command := "status"
	if len(args) > 0 {
		command = args[0]
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		if path, err = config.Discover(); err != nil {
			return err
		}
	}

	// Secrets unrelated to the database should not block a migration.
	cfg, err := config.LoadWithoutValidation(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.OpenUnmigrated(cfg.Database.Driver, cfg.Database.Source())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return migrations.Command(db.DB, cfg.Database.Driver, command)
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/streamverse/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Server configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate a server config file",
	Long:  "Checks TOML syntax, required fields, and environment variable substitution without starting the server.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which config file the server would load",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd, configPathCmd)
}

// configPath returns args[0] when given, otherwise the discovered config.
func configPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return config.Discover()
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path, err := configPath(args)
	if err != nil {
		return err
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			printConfigErrors(cfgErr)
			return errors.New("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(cfg)
	fmt.Println("\nConfiguration valid!")
	return nil
}

func printConfigErrors(e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Println("Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Printf("  - %s\n", m)
		}
		fmt.Println()
	}
	if len(e.Errors) > 0 {
		fmt.Println("Validation errors:")
		for _, msg := range e.Errors {
			fmt.Printf("  - %s\n", msg)
		}
	}
}

func printConfigSummary(cfg *config.Config) {
	fmt.Printf("Server:    %s:%d (log level %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.LogLevel)
	switch cfg.Database.Driver {
	case "postgres":
		fmt.Println("Database:  postgres")
	default:
		fmt.Printf("Database:  sqlite at %s\n", cfg.Database.Path)
	}
	fmt.Printf("Catalog:   %s (cache %s)\n", cfg.Catalog.BaseURL, cfg.Catalog.CacheTTL)
	fmt.Printf("Lists:     cache %s, history limit %d\n", cfg.Lists.CacheTTL, cfg.Lists.HistoryLimit)
	if cfg.Auth.OIDC != nil {
		fmt.Printf("SSO:       %s\n", cfg.Auth.OIDC.Issuer)
	} else {
		fmt.Println("SSO:       disabled")
	}
	if cfg.Embed.ProviderURL != "" {
		fmt.Printf("Streams:   %s\n", cfg.Embed.ProviderURL)
	}
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Discover()
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			fmt.Println("No config found. Searched:")
			for _, p := range config.SearchPaths() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		}
		return err
	}
	fmt.Println(path)
	return nil
}

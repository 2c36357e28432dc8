package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/streamverse/internal/account"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change account settings",
	Long: `Show account settings. Pass any flag to change it, e.g.

  streamverse settings --theme dark --autoplay=false`,
	Args: cobra.NoArgs,
	RunE: runSettingsCmd,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().String("theme", "", "Color scheme: light, dark, or system")
	settingsCmd.Flags().Bool("autoplay", false, "Autoplay the next episode")
	settingsCmd.Flags().Bool("email-notifications", false, "Receive email notifications")
}

// settingsPatch builds a patch from the flags the user actually set.
func settingsPatch(cmd *cobra.Command) (account.SettingsPatch, bool) {
	var (
		patch   account.SettingsPatch
		changed bool
	)
	flags := cmd.Flags()
	if flags.Changed("theme") {
		v, _ := flags.GetString("theme")
		theme := account.Theme(v)
		patch.Theme = &theme
		changed = true
	}
	if flags.Changed("autoplay") {
		v, _ := flags.GetBool("autoplay")
		patch.Autoplay = &v
		changed = true
	}
	if flags.Changed("email-notifications") {
		v, _ := flags.GetBool("email-notifications")
		patch.EmailNotifications = &v
		changed = true
	}
	return patch, changed
}

func runSettingsCmd(cmd *cobra.Command, args []string) error {
	client := newClient()

	var (
		settings *account.Settings
		err      error
	)
	if patch, ok := settingsPatch(cmd); ok {
		if patch.Theme != nil && !patch.Theme.Valid() {
			return account.ErrInvalidTheme
		}
		settings, err = client.UpdateSettings(patch)
	} else {
		settings, err = client.Settings()
	}
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	if jsonOutput {
		printJSON(settings)
		return nil
	}
	fmt.Printf("Theme:                %s\n", settings.Theme)
	fmt.Printf("Autoplay:             %t\n", settings.Autoplay)
	fmt.Printf("Email notifications:  %t\n", settings.EmailNotifications)
	return nil
}

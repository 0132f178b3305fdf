package main

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"flyerhunt/pkg/config"
	"flyerhunt/pkg/models"

	"github.com/spf13/cobra"
)

var zipPattern = regexp.MustCompile(`^\d{4,6}$`)

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current preferences and file locations as JSON.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs := config.NewStore(config.PrefsPath()).Load()

		out := struct {
			models.Preferences
			ConfigFile      string `json:"configFile"`
			CredentialCache string `json:"credentialCache"`
		}{prefs, config.PrefsPath(), config.CredentialsPath()}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <zip|stores|reset> [value]",
	Short: "Change a preference, or reset restores the built-in defaults.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := ""
		if len(args) > 1 {
			value = args[1]
		}

		store := config.NewStore(config.PrefsPath())
		prefs := store.Load()

		switch key {
		case "zip":
			if !zipPattern.MatchString(value) {
				return &models.ConfigError{Msg: fmt.Sprintf("zip code %q must be 4-6 digits", value)}
			}
			prefs.DefaultZip = value
		case "stores":
			list := config.ParseList(value)
			if len(list) == 0 {
				return &models.ConfigError{Msg: "store list must not be empty"}
			}
			prefs.DefaultStores = list
		case "reset":
			// Any value token after "reset" is ignored.
			prefs = config.Defaults()
		default:
			return &models.ConfigError{Msg: fmt.Sprintf("unsupported config key %q (use zip, stores or reset)", key)}
		}

		if err := store.Save(prefs); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(prefs)
	},
}

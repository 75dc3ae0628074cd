package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/store"
)

var settingsPath string

var rootCmd = &cobra.Command{
	Use:   "mudra",
	Short: "Mouse gesture recognition for the browser",
	Long: `Mudra classifies right-button drag paths into directional gestures
and runs the browser action bound to each one.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "settings file (default ~/.config/mudra/settings.json)")
}

// loadSettings reads .env, the settings file and environment overrides.
func loadSettings() (*config.Settings, error) {
	config.LoadEnv()

	dataDir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	path := settingsPath
	if path == "" {
		path, err = config.SettingsPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings path: %w", err)
		}
	}

	settings, err := config.Load(path, dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	settings.ApplyEnv()
	return settings, nil
}

// openStore opens the database named by the settings, honoring --db when
// the command has one.
func openStore(cmd *cobra.Command, settings *config.Settings) (*store.Store, error) {
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		settings.DBPath = f.Value.String()
	}
	st, err := store.New(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return st, nil
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/gesture"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var vocabularyCmd = &cobra.Command{
	Use:   "vocabulary",
	Short: "List the gestures mudra can recognize",
	Run: func(cmd *cobra.Command, args []string) {
		for _, token := range gesture.Vocabulary {
			if gesture.IsCloseTab(token) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (close-tab)\n", token)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd, vocabularyCmd)
}

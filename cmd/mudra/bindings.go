package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

var bindingsCmd = &cobra.Command{
	Use:   "bindings",
	Short: "Manage gesture bindings",
}

var bindingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all gesture bindings",
	RunE:  listBindings,
}

var bindingsRemoveCmd = &cobra.Command{
	Use:   "remove <token>",
	Short: "Remove the binding for a gesture",
	Args:  cobra.ExactArgs(1),
	RunE:  removeBinding,
}

var bindingsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bind the default browser actions to unbound gestures",
	RunE:  seedBindings,
}

func init() {
	rootCmd.AddCommand(bindingsCmd)
	bindingsCmd.AddCommand(bindingsListCmd, bindingsRemoveCmd, bindingsSeedCmd)
	bindingsCmd.PersistentFlags().String("db", "", "database path (overrides settings)")
}

func listBindings(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	st, err := openStore(cmd, settings)
	if err != nil {
		return err
	}
	defer st.Close()

	bindings, err := st.Bindings().List()
	if err != nil {
		return fmt.Errorf("failed to list bindings: %w", err)
	}
	if len(bindings) == 0 {
		fmt.Println("No bindings registered")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GESTURE\tPLUGIN\tACTION\tENABLED")
	for _, b := range bindings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", b.Token, b.PluginName, b.ActionName, b.Enabled)
	}
	return w.Flush()
}

func removeBinding(cmd *cobra.Command, args []string) error {
	if !gesture.IsValid(args[0]) {
		return fmt.Errorf("unknown gesture: %s", args[0])
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	st, err := openStore(cmd, settings)
	if err != nil {
		return err
	}
	defer st.Close()

	b, err := st.Bindings().GetByToken(args[0])
	if err != nil {
		return fmt.Errorf("failed to get binding: %w", err)
	}
	if b == nil {
		return fmt.Errorf("binding not found: %s", args[0])
	}
	if err := st.Bindings().Delete(b.ID); err != nil {
		return fmt.Errorf("failed to remove binding: %w", err)
	}

	fmt.Println("Removed binding:", args[0])
	return nil
}

func seedBindings(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	st, err := openStore(cmd, settings)
	if err != nil {
		return err
	}
	defer st.Close()

	a, err := app.New(app.Config{Store: st, PluginDir: settings.PluginDir, Engine: settings.Engine})
	if err != nil {
		return err
	}
	n, err := a.SeedBindings()
	if err != nil {
		return fmt.Errorf("failed to seed bindings: %w", err)
	}
	fmt.Printf("Seeded %d binding(s)\n", n)
	return nil
}

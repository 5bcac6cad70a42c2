// internal/cli/profile.go
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arc-language/buildenv/pkg/env"
)

var profileFormat string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved configurations",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := env.NewProfileStore(profileDir())
		if err != nil {
			return err
		}
		names, err := store.List()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := env.NewProfileStore(profileDir())
		if err != nil {
			return err
		}
		p, err := store.Load(args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), profileFormat, p)
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "rm [name]",
	Short: "Delete a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := env.NewProfileStore(profileDir())
		if err != nil {
			return err
		}
		return store.Remove(args[0])
	},
}

func init() {
	profileShowCmd.Flags().StringVar(&profileFormat, "format", "yaml", "output format: yaml, shell or flags")
	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileRemoveCmd)
}

func profileDir() string {
	if config.CacheDir == "" {
		return ""
	}
	return filepath.Join(config.CacheDir, "profiles")
}

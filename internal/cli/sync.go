// internal/cli/sync.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/buildenv/pkg/index"
)

var (
	syncURL    string
	syncBranch string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Update the package declaration registry",
	Long: `Fetch the declaration registry from git into the local cache.
Declarations found there override the built-in ones by name.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncURL, "url", "", "registry repository (default from config)")
	syncCmd.Flags().StringVar(&syncBranch, "branch", index.RepoBranch, "registry branch")
}

func runSync(cmd *cobra.Command, args []string) error {
	url := syncURL
	if url == "" {
		url = config.RegistryURL
	}

	dir, err := index.Sync(commandContext(cmd), url, syncBranch, config.CacheDir)
	if err != nil {
		return fmt.Errorf("syncing registry: %w", err)
	}
	if dir != config.RegistryDir {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: registry_dir is %s, synced into %s\n", config.RegistryDir, dir)
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}

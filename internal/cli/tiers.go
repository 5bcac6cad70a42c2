// internal/cli/tiers.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arc-language/buildenv"
	"github.com/arc-language/buildenv/pkg/tier"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers [package...]",
	Short: "Print the dependency tiers packages resolve in",
	Long: `Order the declared packages (or the named ones and their dependencies)
into tiers: every package only depends on packages of earlier tiers.
Nothing is probed.`,
	RunE: runTiers,
}

func runTiers(cmd *cobra.Command, args []string) error {
	reg, err := buildenv.LoadRegistry(config)
	if err != nil {
		return err
	}

	nodes := reg.Nodes()
	if len(args) > 0 {
		for _, name := range args {
			if _, err := reg.Get(name); err != nil {
				return err
			}
		}
		nodes = tier.Closure(nodes, args)
	}

	tiers, err := tier.Resolve(nodes)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, t := range tiers {
		fmt.Fprintf(out, "%d: %s\n", i, strings.Join(t, " "))
	}
	return nil
}

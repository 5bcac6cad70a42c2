// internal/cli/list.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arc-language/buildenv"
	"github.com/arc-language/buildenv/pkg/platform"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List declared packages and available compilers",
	Long:  `List every declared package and the C compilers found on this system.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	// Detect platform
	plat, err := platform.Detect()
	if err != nil {
		return fmt.Errorf("detecting platform: %w", err)
	}

	reg, err := buildenv.LoadRegistry(config)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Platform: %s/%s\n\n", plat.OS, plat.Arch)
	fmt.Fprintf(out, "Available compilers:\n")
	for _, cc := range plat.Available {
		marker := " "
		if cc == plat.Preferred {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s\n", marker, cc)
	}

	if plat.Preferred != "" {
		fmt.Fprintf(out, "\n* = preferred compiler\n")
	}

	fmt.Fprintf(out, "\nDeclared packages:\n")
	for _, d := range reg.Declarations() {
		kind := "optional"
		if d.Required {
			kind = "required"
		}
		line := fmt.Sprintf("  %-12s %-8s", d.Name, kind)
		if len(d.Deps) > 0 {
			line += " deps: " + strings.Join(d.Deps, ", ")
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}

	return nil
}

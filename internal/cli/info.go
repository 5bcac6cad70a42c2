// internal/cli/info.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arc-language/buildenv"
	"github.com/arc-language/buildenv/pkg/env"
	"github.com/arc-language/buildenv/pkg/location"
	"github.com/arc-language/buildenv/pkg/platform"
)

var infoLimit int

var infoCmd = &cobra.Command{
	Use:   "info [package]",
	Short: "Show a package declaration and where it is looked for",
	Long: `Display a package declaration together with the install locations
that would be probed on this system, in probe order.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().IntVar(&infoLimit, "limit", 20, "maximum number of locations to show (0 for all)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	reg, err := buildenv.LoadRegistry(config)
	if err != nil {
		return err
	}
	decl, err := reg.Get(args[0])
	if err != nil {
		return err
	}

	// Detect platform
	plat, err := platform.Detect()
	if err != nil {
		return fmt.Errorf("detecting platform: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Package: %s\n", decl.Name)
	fmt.Fprintf(out, "Required: %t\n", decl.Required)
	if len(decl.Deps) > 0 {
		fmt.Fprintf(out, "Deps: %s\n", strings.Join(decl.Deps, ", "))
	}
	fmt.Fprintf(out, "Headers: %s\n", strings.Join(decl.Headers, ", "))
	if len(decl.Libs) > 0 {
		fmt.Fprintf(out, "Libraries: %s\n", strings.Join(decl.Libs, " | "))
	}

	pkg := decl.Package(plat.Registry(config.ExtraRoots))
	for _, v := range pkg.VariantsFor(plat.OS) {
		fmt.Fprintf(out, "Variant: %s\n", v.Name)
	}

	layout := env.LayoutFor(plat.OS, plat.Arch)
	fmt.Fprintf(out, "Locations (%s):\n", plat.OS)
	n := 0
	for c := range pkg.Locations {
		if infoLimit > 0 && n == infoLimit {
			fmt.Fprintln(out, "  ...")
			break
		}
		fmt.Fprintf(out, "  %s\n", describeCandidate(c))
		if dirs := env.PkgConfigDirs(c.Root, layout); len(dirs) > 0 {
			fmt.Fprintf(out, "    pkg-config: %s\n", strings.Join(dirs, ":"))
		}
		n++
	}
	return nil
}

func describeCandidate(c location.Candidate) string {
	return fmt.Sprintf("%s  -I %s  -L %s", c.Root, strings.Join(c.Include, ":"), strings.Join(c.Lib, ":"))
}

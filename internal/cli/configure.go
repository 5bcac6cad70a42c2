// internal/cli/configure.go
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/buildenv"
	"github.com/arc-language/buildenv/pkg/env"
	"github.com/arc-language/buildenv/pkg/platform"
	"github.com/arc-language/buildenv/pkg/resolve"
)

var (
	configureFormat   string
	configureSave     string
	configureParallel int
	configureLogFile  string
	configureDefines  []string
)

var configureCmd = &cobra.Command{
	Use:   "configure [package...]",
	Short: "Discover packages and print the build configuration",
	Long: `Probe every declared package (or only the named ones and their
dependencies) and print the merged configuration.

Examples:
  buildenv configure
  buildenv configure hdf5 mpi --format=shell
  buildenv configure --probe=fs --save=default`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().StringVar(&configureFormat, "format", "yaml", "output format: yaml, shell or flags")
	configureCmd.Flags().StringVar(&configureSave, "save", "", "save the result as a named profile")
	configureCmd.Flags().IntVar(&configureParallel, "parallel", 0, "probes run concurrently per package (default from config)")
	configureCmd.Flags().StringVar(&configureLogFile, "log-file", "", "append probe diagnostics to this file (.xz compresses)")
	configureCmd.Flags().StringSliceVarP(&configureDefines, "define", "D", nil, "preprocessor define added to the base configuration")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	switch configureFormat {
	case "yaml", "shell", "flags":
	default:
		return fmt.Errorf("unknown format %q", configureFormat)
	}

	plat, err := platform.Detect()
	if err != nil {
		return fmt.Errorf("detecting platform: %w", err)
	}

	cfg := *config
	if configureParallel > 0 {
		cfg.Parallel = configureParallel
	}
	if configureLogFile != "" {
		cfg.LogFile = configureLogFile
	}

	var base env.Record
	base.AddDefines(configureDefines...)

	rep, err := buildenv.Configure(ctx, &cfg, buildenv.Options{
		Packages: args,
		Base:     base,
		Platform: plat,
	})
	if rep != nil {
		writeSummary(cmd.ErrOrStderr(), rep)
	}
	if err != nil {
		if rep != nil && rep.Status == resolve.Aborted {
			writeAbort(cmd.ErrOrStderr(), rep)
		}
		return err
	}

	profile := env.NewProfile(configureSave, plat.OS+"/"+plat.Arch, rep.Config, rep.Contributions)
	if err := render(cmd.OutOrStdout(), configureFormat, profile); err != nil {
		return err
	}

	if configureSave != "" {
		store, err := env.NewProfileStore(profileDir())
		if err != nil {
			return err
		}
		if err := store.Save(profile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved profile %q (%s)\n", profile.Name, profile.Fingerprint)
	}
	return nil
}

// render writes the configuration of p in format.
func render(w io.Writer, format string, p *env.Profile) error {
	switch format {
	case "shell":
		flags := p.Config.Flags()
		fmt.Fprintf(w, "CPPFLAGS=%s\n", shellQuote(append(flags.IncludeFlags, flags.DefineFlags...)))
		fmt.Fprintf(w, "CFLAGS=%s\n", shellQuote(flags.CFlags))
		fmt.Fprintf(w, "LDFLAGS=%s\n", shellQuote(append(flags.LibraryFlags, append(flags.FrameworkFlags, flags.LDFlags...)...)))
		fmt.Fprintf(w, "LIBS=%s\n", shellQuote(flags.LinkFlags))
		return nil
	case "flags":
		fmt.Fprintln(w, strings.Join(p.Config.Flags().All(), " "))
		return nil
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		return enc.Close()
	}
}

// shellQuote joins args into one single-quoted shell word.
func shellQuote(args []string) string {
	s := strings.Join(args, " ")
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// writeSummary prints one line per package.
func writeSummary(w io.Writer, rep *resolve.Report) {
	for _, o := range rep.Outcomes {
		switch o.State {
		case resolve.Resolved:
			winner := o.Attempts[len(o.Attempts)-1]
			fmt.Fprintf(w, "%s %-12s %s [%s]\n", color.Green.Sprint("✓"), o.Name, winner.Candidate.Root, winner.Variant)
		case resolve.Unresolved:
			fmt.Fprintf(w, "%s %-12s %s\n", color.Yellow.Sprint("-"), o.Name, color.Yellow.Sprintf("not found (optional): %v", o.Err))
		case resolve.Failed:
			fmt.Fprintf(w, "%s %-12s %s\n", color.Red.Sprint("✗"), o.Name, color.Red.Sprintf("FAILED: %v", o.Err))
		default:
			fmt.Fprintf(w, "%s %-12s %s\n", color.Gray.Sprint("·"), o.Name, color.Gray.Sprint("not reached"))
		}
	}
}

// writeAbort names the fatal cause and the attempt history of the package
// that caused it.
func writeAbort(w io.Writer, rep *resolve.Report) {
	fmt.Fprintln(w, color.Danger.Sprintf("Aborted: %v", rep.Err))
	o := rep.Outcome(rep.Failed)
	if o == nil || len(o.Attempts) == 0 {
		return
	}
	fmt.Fprintf(w, "Attempts for %s:\n", o.Name)
	for i, a := range o.Attempts {
		fmt.Fprintf(w, "  %d. %s [%s]: %v\n", i+1, a.Candidate.Root, a.Variant, a.Err)
	}
}

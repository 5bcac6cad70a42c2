// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/buildenv/internal/ctxlog"
	"github.com/arc-language/buildenv/pkg/core"
)

var (
	cfgFile   string
	probeMode string
	compiler  string
	logLevel  string
	logFormat string
	debug     bool
	config    *core.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "buildenv",
	Short: "Native build environment discovery",
	Long: `buildenv - native build environment discovery

Finds which declared C libraries are installed, where, and how to link
them, then prints one consistent set of compiler and linker flags.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext executes the root command with ctx; canceling ctx stops
// a running resolution between packages.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/buildenv/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&probeMode, "probe", "", "probe mode: compiler or fs")
	rootCmd.PersistentFlags().StringVar(&compiler, "cc", "", "C compiler used by the compiler probe")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if probeMode != "" {
		config.ProbeMode = probeMode
	}
	if compiler != "" {
		config.Compiler = compiler
	}
	if logLevel != "" {
		config.LogLevel = logLevel
	}
	if logFormat != "" {
		config.LogFormat = logFormat
	}
	if debug {
		config.Debug = true
		config.LogLevel = "debug"
	}
}

// commandContext returns the command's context carrying the configured
// logger. Logs go to stderr so stdout stays machine readable.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxlog.WithLogger(ctx, ctxlog.New(config.LogLevel, config.LogFormat, cmd.ErrOrStderr()))
}

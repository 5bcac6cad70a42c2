// buildenv.go
package buildenv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/arc-language/buildenv/internal/ctxlog"
	"github.com/arc-language/buildenv/pkg/core"
	"github.com/arc-language/buildenv/pkg/env"
	"github.com/arc-language/buildenv/pkg/logsink"
	"github.com/arc-language/buildenv/pkg/platform"
	"github.com/arc-language/buildenv/pkg/probe"
	"github.com/arc-language/buildenv/pkg/registry"
	"github.com/arc-language/buildenv/pkg/resolve"
	"github.com/arc-language/buildenv/pkg/tier"
)

// Re-export types for convenience
type (
	Config        = core.Config
	Record        = env.Record
	CompilerFlags = env.CompilerFlags
	Declaration   = registry.Declaration
	Package       = resolve.Package
	Report        = resolve.Report
	Outcome       = resolve.Outcome
	Attempt       = resolve.Attempt
	Platform      = platform.Platform

	CyclicDependencyError  = tier.CyclicDependencyError
	UnknownDependencyError = tier.UnknownDependencyError
	DuplicatePackageError  = tier.DuplicatePackageError
	PackageNotFoundError   = resolve.PackageNotFoundError
	ProbeExecutionError    = probe.ExecutionError
)

// Re-export constants
const (
	ProbeCompiler = core.ProbeCompiler
	ProbeFS       = core.ProbeFS

	Completed = resolve.Completed
	Aborted   = resolve.Aborted
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Options tunes a single Configure call. Every field is optional.
type Options struct {
	// Packages limits the run to these packages and their dependencies.
	// Empty means every declared package.
	Packages []string

	// Base is the configuration the run starts from.
	Base Record

	Registry *registry.Registry // defaults to LoadRegistry(cfg)
	Prober   probe.Prober       // defaults to NewProber(cfg, platform, sink)
	Platform *platform.Platform // defaults to platform.Detect()
	Sink     *logsink.Sink      // defaults to the log file in cfg, or memory
}

// LoadRegistry returns the built-in declarations overlaid with those found
// in cfg.RegistryDir. A missing registry directory is not an error.
func LoadRegistry(cfg *Config) (*registry.Registry, error) {
	reg := registry.Builtin()
	if cfg == nil || cfg.RegistryDir == "" {
		return reg, nil
	}
	if _, err := os.Stat(cfg.RegistryDir); errors.Is(err, fs.ErrNotExist) {
		return reg, nil
	}

	loaded, err := registry.Load(cfg.RegistryDir)
	if err != nil {
		return nil, &Error{Op: "load registry", Err: err}
	}
	return reg.Merge(loaded), nil
}

// NewProber builds the prober cfg asks for. Results are memoized for the
// life of the prober and every attempt is appended to sink. The returned
// cache reports hit statistics.
func NewProber(cfg *Config, plat *Platform, sink *logsink.Sink) (probe.Prober, *probe.Cache, error) {
	var base probe.Prober
	switch cfg.ProbeMode {
	case core.ProbeFS:
		fp := probe.NewFileProber()
		fp.GOOS = plat.OS
		base = fp
	case core.ProbeCompiler, "":
		cc, err := platform.ResolveCompiler(plat, cfg)
		if err != nil {
			return nil, nil, &Error{Op: "select compiler", Err: fmt.Errorf("%w: %w", ErrCompilerNotAvailable, err)}
		}
		cp := probe.NewCompilerProber(cc, cfg.ProbeTimeout)
		cp.GOOS = plat.OS
		base = cp
	default:
		return nil, nil, &Error{Op: "select prober", Err: fmt.Errorf("unknown probe mode %q", cfg.ProbeMode)}
	}

	cache := probe.Cached(base)
	if sink == nil {
		return cache, cache, nil
	}
	return probe.Recorded(cache, sink), cache, nil
}

// Configure discovers the declared packages and returns the merged build
// configuration. When the run aborts the error is returned along with a
// report naming the failed package and its attempt history; the report's
// Config is empty in that case.
func Configure(ctx context.Context, cfg *Config, opts Options) (*Report, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Op: "configure", Err: err}
	}
	logger := ctxlog.FromContext(ctx)

	plat := opts.Platform
	if plat == nil {
		p, err := platform.Detect()
		if err != nil {
			return nil, &Error{Op: "detect platform", Err: fmt.Errorf("%w: %w", ErrPlatformNotSupported, err)}
		}
		plat = p
	}

	reg := opts.Registry
	if reg == nil {
		r, err := LoadRegistry(cfg)
		if err != nil {
			return nil, err
		}
		reg = r
	}

	sink := opts.Sink
	if sink == nil {
		s, err := openSink(cfg)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		sink = s
	}

	prober := opts.Prober
	var cache *probe.Cache
	if prober == nil {
		p, c, err := NewProber(cfg, plat, sink)
		if err != nil {
			return nil, err
		}
		prober, cache = p, c
	}

	decls, err := selectDeclarations(reg, opts.Packages)
	if err != nil {
		return nil, err
	}

	rp := plat.Registry(cfg.ExtraRoots)
	pkgs := make([]*resolve.Package, len(decls))
	for i := range decls {
		pkgs[i] = decls[i].Package(rp)
	}

	logger.Debug("Configuring.", "platform", plat.String(), "packages", len(pkgs), "probe", cfg.ProbeMode)
	driver := resolve.NewDriver(pkgs, prober, resolve.DriverOptions{
		Options: resolve.Options{GOOS: plat.OS, Parallel: cfg.Parallel},
		Base:    opts.Base,
		Sink:    sink,
	})
	rep, err := driver.Run(ctx)
	if cache != nil {
		hits, misses := cache.Stats()
		logger.Debug("Probe cache.", "hits", hits, "misses", misses)
	}
	if err != nil {
		return rep, &Error{Op: "configure", Package: rep.Failed, Err: err}
	}
	return rep, nil
}

// selectDeclarations returns the declarations named by roots together with
// everything they depend on, in declaration order.
func selectDeclarations(reg *registry.Registry, roots []string) ([]registry.Declaration, error) {
	if len(roots) == 0 {
		return reg.Declarations(), nil
	}
	for _, name := range roots {
		if _, err := reg.Get(name); err != nil {
			return nil, &Error{Op: "configure", Package: name, Err: ErrPackageNotFound}
		}
	}

	var out []registry.Declaration
	for _, n := range tier.Closure(reg.Nodes(), roots) {
		d, _ := reg.Get(n.Name)
		out = append(out, d)
	}
	return out, nil
}

func openSink(cfg *Config) (*logsink.Sink, error) {
	if cfg.LogFile == "" {
		return logsink.New(nil), nil
	}
	s, err := logsink.Open(cfg.LogFile)
	if err != nil {
		return nil, &Error{Op: "open log", Err: err}
	}
	return s, nil
}

package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/arc-language/buildenv/internal/ctxlog"
	"github.com/arc-language/buildenv/pkg/env"
	"github.com/arc-language/buildenv/pkg/logsink"
	"github.com/arc-language/buildenv/pkg/probe"
	"github.com/arc-language/buildenv/pkg/tier"
)

// Outcome is the per-package result of a run.
type Outcome struct {
	Name         string
	Required     bool
	State        State
	Tier         int        // -1 when the package never reached a tier
	Contribution env.Record // entries this package added to the configuration
	Attempts     []Attempt
	Err          error
}

// Report is the result of a run. Config is only populated when Status is
// Completed; an aborted run never hands out a partial configuration.
type Report struct {
	Status        RunStatus
	Tiers         []tier.Tier
	Outcomes      []*Outcome // declaration order
	Config        env.Record
	Contributions []env.Contribution // commit order
	Failed        string             // package that aborted the run, if any
	Err           error

	byName map[string]*Outcome
}

// Outcome returns the outcome for name, or nil.
func (r *Report) Outcome(name string) *Outcome {
	return r.byName[name]
}

// DriverOptions configures a Driver.
type DriverOptions struct {
	Options
	Base env.Record    // configuration the accumulator starts from
	Sink *logsink.Sink // receives one line per package outcome; may be nil
}

// Driver resolves a package set tier by tier against one accumulator.
// Packages are resolved one at a time; only the driver commits.
type Driver struct {
	packages []*Package
	prober   probe.Prober
	opts     DriverOptions
}

// NewDriver creates a driver for packages.
func NewDriver(packages []*Package, prober probe.Prober, opts DriverOptions) *Driver {
	if opts.Sink == nil {
		opts.Sink = logsink.New(nil)
	}
	return &Driver{packages: packages, prober: prober, opts: opts}
}

// Run resolves every package. It returns the report together with the
// fatal error when the run aborts: a cycle, a duplicate or undeclared
// dependency of a required package, a required package that was not found,
// or a canceled ctx. Tiers after the failing one are never probed.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	sink := d.opts.Sink

	rep := &Report{Status: Initialized, byName: make(map[string]*Outcome)}
	byName := make(map[string]*Package, len(d.packages))
	for _, p := range d.packages {
		if _, dup := byName[p.Name]; dup {
			return d.abort(ctx, rep, p.Name, &tier.DuplicatePackageError{Name: p.Name})
		}
		byName[p.Name] = p
		o := &Outcome{Name: p.Name, Required: p.Required, State: Pending, Tier: -1}
		rep.Outcomes = append(rep.Outcomes, o)
		rep.byName[p.Name] = o
	}

	rep.Status = Running
	logger.Info("Starting resolution.", "packages", len(d.packages))

	if err := d.checkCycles(byName); err != nil {
		return d.abort(ctx, rep, "", fmt.Errorf("ordering packages: %w", err))
	}
	if name, err := d.prune(rep, byName); err != nil {
		return d.abort(ctx, rep, name, err)
	}

	var nodes []tier.Node
	for _, p := range d.packages {
		if rep.byName[p.Name].State == Pending {
			nodes = append(nodes, tier.Node{Name: p.Name, Deps: p.Deps})
		}
	}
	tiers, err := tier.Resolve(nodes)
	if err != nil {
		return d.abort(ctx, rep, "", fmt.Errorf("ordering packages: %w", err))
	}
	rep.Tiers = tiers
	logger.Debug("Packages ordered.", "tiers", len(tiers))

	acc := env.NewAccumulator(d.opts.Base)
	for i, t := range tiers {
		logger.Debug("Resolving tier.", "tier", i, "packages", t)
		for _, name := range t {
			if err := ctx.Err(); err != nil {
				return d.abort(ctx, rep, name, err)
			}

			pkg := byName[name]
			o := rep.byName[name]
			o.Tier = i

			if dep := d.unresolvedDep(pkg, rep); dep != "" {
				cause := fmt.Errorf("dependency %q unresolved", dep)
				if pkg.Required {
					o.State = Failed
					o.Err = &PackageNotFoundError{Package: name, Cause: cause}
					sink.Append("package %s: FAILED: %v", name, o.Err)
					return d.abort(ctx, rep, name, o.Err)
				}
				o.State = Unresolved
				o.Err = fmt.Errorf("%w: %s: %w", ErrOptionalUnresolved, name, cause)
				sink.Append("package %s: skipped: %v", name, cause)
				continue
			}

			o.State = Resolving
			contrib, attempts, err := ResolvePackage(ctx, pkg, acc.Snapshot(), d.prober, d.opts.Options)
			o.Attempts = attempts
			if err != nil {
				if errors.Is(err, ErrOptionalUnresolved) {
					o.State = Unresolved
					o.Err = err
					sink.Append("package %s: unresolved (optional) after %d attempts", name, len(attempts))
					logger.Warn("Optional package not found.", "package", name, "attempts", len(attempts))
					continue
				}
				o.State = Failed
				o.Err = err
				sink.Append("package %s: FAILED: %v", name, err)
				return d.abort(ctx, rep, name, err)
			}

			o.Contribution = acc.Commit(name, contrib)
			o.State = Resolved
			winner := attempts[len(attempts)-1]
			sink.Append("package %s: accepted %s [%s]", name, winner.Candidate.Root, winner.Variant)
			logger.Info("Package resolved.", "package", name, "root", winner.Candidate.Root, "variant", winner.Variant)
		}
	}

	rep.Status = Completed
	rep.Config = acc.Snapshot()
	rep.Contributions = acc.Contributions()
	sink.Append("run completed: %d packages in %d tiers", len(d.packages), len(tiers))
	logger.Info("Resolution completed.", "tiers", len(tiers))
	return rep, nil
}

// prune drops packages whose dependencies can never resolve: undeclared
// names, or packages pruned themselves. Optional packages become
// Unresolved; a required one is fatal.
func (d *Driver) prune(rep *Report, byName map[string]*Package) (string, error) {
	for changed := true; changed; {
		changed = false
		for _, p := range d.packages {
			o := rep.byName[p.Name]
			if o.State != Pending {
				continue
			}

			var cause error
			undeclared := false
			for _, dep := range p.Deps {
				if _, ok := byName[dep]; !ok {
					cause = &tier.UnknownDependencyError{Package: p.Name, Dependency: dep}
					undeclared = true
					break
				}
				if rep.byName[dep].State == Unresolved {
					cause = fmt.Errorf("dependency %q unresolved: %w", dep, rep.byName[dep].Err)
					break
				}
			}
			if cause == nil {
				continue
			}

			if p.Required {
				o.State = Failed
				o.Err = cause
				if !undeclared {
					o.Err = &PackageNotFoundError{Package: p.Name, Cause: cause}
				}
				d.opts.Sink.Append("package %s: FAILED: %v", p.Name, o.Err)
				return p.Name, o.Err
			}
			o.State = Unresolved
			o.Err = fmt.Errorf("%w: %s: %w", ErrOptionalUnresolved, p.Name, cause)
			d.opts.Sink.Append("package %s: skipped: %v", p.Name, cause)
			changed = true
		}
	}
	return "", nil
}

// checkCycles orders the declared graph with edges to undeclared names
// dropped, so a cycle is reported even when pruning would otherwise
// remove its members.
func (d *Driver) checkCycles(byName map[string]*Package) error {
	nodes := make([]tier.Node, 0, len(d.packages))
	for _, p := range d.packages {
		n := tier.Node{Name: p.Name}
		for _, dep := range p.Deps {
			if _, ok := byName[dep]; ok {
				n.Deps = append(n.Deps, dep)
			}
		}
		nodes = append(nodes, n)
	}
	_, err := tier.Resolve(nodes)
	return err
}

func (d *Driver) unresolvedDep(pkg *Package, rep *Report) string {
	for _, dep := range pkg.Deps {
		if o := rep.byName[dep]; o != nil && o.State != Resolved {
			return dep
		}
	}
	return ""
}

func (d *Driver) abort(ctx context.Context, rep *Report, name string, err error) (*Report, error) {
	rep.Status = Aborted
	rep.Failed = name
	rep.Err = err
	rep.Config = env.Record{}
	rep.Contributions = nil
	d.opts.Sink.Append("run aborted: %v", err)
	ctxlog.FromContext(ctx).Error("Resolution aborted.", "package", name, "error", err)
	return rep, err
}

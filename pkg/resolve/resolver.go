package resolve

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/arc-language/buildenv/internal/ctxlog"
	"github.com/arc-language/buildenv/pkg/env"
	"github.com/arc-language/buildenv/pkg/location"
	"github.com/arc-language/buildenv/pkg/probe"
)

// Attempt is one probed trial. Err is nil for the accepted one.
type Attempt struct {
	Candidate location.Candidate
	Variant   string
	Err       error
}

// OK reports whether the attempt succeeded.
func (a Attempt) OK() bool { return a.Err == nil }

// Options tunes package resolution.
type Options struct {
	GOOS string // defaults to runtime.GOOS

	// Parallel > 1 probes up to that many trials of one package at once.
	// The winner is still the earliest successful trial in order.
	Parallel int
}

func (o Options) goos() string {
	if o.GOOS == "" {
		return runtime.GOOS
	}
	return o.GOOS
}

type trialResult struct {
	res probe.Result
	err error
}

// ResolvePackage probes pkg's trials on top of base and returns the winning
// trial's contribution: every entry it adds to base. base is not modified.
//
// When every trial fails it returns a *PackageNotFoundError for a required
// package and an error wrapping ErrOptionalUnresolved otherwise. A canceled
// ctx stops the search and is returned as is.
func ResolvePackage(ctx context.Context, pkg *Package, base env.Record, prober probe.Prober, opts Options) (env.Record, []Attempt, error) {
	logger := ctxlog.FromContext(ctx).With("package", pkg.Name)

	batchSize := opts.Parallel
	if batchSize < 1 {
		batchSize = 1
	}

	var attempts []Attempt
	batch := make([]Trial, 0, batchSize)

	// flush probes the batch and reports the winning trial, if any.
	flush := func() (*Trial, probe.Result, error) {
		results := make([]trialResult, len(batch))
		if len(batch) == 1 {
			res, err := prober.Probe(ctx, batch[0].Request)
			results[0] = trialResult{res, err}
		} else {
			var g errgroup.Group
			g.SetLimit(batchSize)
			for i := range batch {
				g.Go(func() error {
					res, err := prober.Probe(ctx, batch[i].Request)
					results[i] = trialResult{res, err}
					return nil
				})
			}
			_ = g.Wait()
		}

		for i, r := range results {
			t := batch[i]
			attempts = append(attempts, Attempt{Candidate: t.Candidate, Variant: t.Variant.Name, Err: r.err})
			if r.err == nil {
				return &t, r.res, nil
			}
			if err := ctx.Err(); err != nil {
				return nil, probe.Result{}, err
			}
			if probe.IsCandidateFailure(r.err) {
				logger.Debug("Trial rejected.", "root", t.Candidate.Root, "variant", t.Variant.Name, "error", r.err)
			} else {
				logger.Warn("Probe error.", "root", t.Candidate.Root, "variant", t.Variant.Name, "error", r.err)
			}
		}
		batch = batch[:0]
		return nil, probe.Result{}, nil
	}

	for t := range pkg.Trials(base, opts.goos()) {
		batch = append(batch, t)
		if len(batch) < batchSize {
			continue
		}
		winner, res, err := flush()
		if err != nil {
			return env.Record{}, attempts, err
		}
		if winner != nil {
			return accept(ctx, pkg, winner, res, base), attempts, nil
		}
	}
	if len(batch) > 0 {
		winner, res, err := flush()
		if err != nil {
			return env.Record{}, attempts, err
		}
		if winner != nil {
			return accept(ctx, pkg, winner, res, base), attempts, nil
		}
	}

	if pkg.Required {
		return env.Record{}, attempts, &PackageNotFoundError{Package: pkg.Name, Attempts: attempts}
	}
	return env.Record{}, attempts, fmt.Errorf("%w: %s (%d attempts)", ErrOptionalUnresolved, pkg.Name, len(attempts))
}

func accept(ctx context.Context, pkg *Package, t *Trial, res probe.Result, base env.Record) env.Record {
	ctxlog.FromContext(ctx).Debug("Trial accepted.",
		"package", pkg.Name, "root", t.Candidate.Root, "variant", t.Variant.Name, "library", res.Library)
	return t.Accept(res).Diff(base)
}

// Package resolve turns package declarations into a build configuration.
//
// A Package expands into trials: every location candidate crossed with every
// variant that applies to the platform. The first trial whose probe succeeds
// wins. The Driver walks dependency tiers in order and commits each winner
// into one shared accumulator.
package resolve

import (
	"iter"
	"slices"

	"github.com/arc-language/buildenv/pkg/env"
	"github.com/arc-language/buildenv/pkg/location"
	"github.com/arc-language/buildenv/pkg/probe"
)

// Variant is one mutually exclusive way of linking a package, e.g. a darwin
// framework versus POSIX libraries.
type Variant struct {
	Name       string
	Platforms  []string // GOOS values; empty matches every platform
	Libraries  []string // replaces Package.Libraries when non-nil
	Defines    []string
	CFlags     []string
	LDFlags    []string
	Frameworks []string
}

// Package is a dependency to locate. Deps name other packages; the package
// never owns them.
type Package struct {
	Name      string
	Required  bool
	Deps      []string
	Headers   []string
	Libraries []string // ordered alternatives, e.g. ABI suffixed names
	Variants  []Variant

	// Locations yields install candidates. Nil means rely on the toolchain
	// default search paths alone.
	Locations location.Sequence
}

// Trial is one (candidate, variant) combination built on a base record.
type Trial struct {
	Index     int
	Candidate location.Candidate
	Variant   Variant
	Record    env.Record // base clone plus the variant's flags
	Request   probe.Request
}

// VariantsFor returns the variants applying to goos, in declaration order.
// A package without variants has a single unnamed default one.
func (p *Package) VariantsFor(goos string) []Variant {
	if len(p.Variants) == 0 {
		return []Variant{{Name: "default"}}
	}
	var out []Variant
	for _, v := range p.Variants {
		if len(v.Platforms) == 0 || slices.Contains(v.Platforms, goos) {
			out = append(out, v)
		}
	}
	return out
}

// Trials yields every trial location-major: all variants of the first
// candidate, then all variants of the second, and so on. base is cloned
// for each trial and never modified.
func (p *Package) Trials(base env.Record, goos string) iter.Seq[Trial] {
	variants := p.VariantsFor(goos)
	locations := p.Locations
	if locations == nil {
		locations = location.Slice(location.Candidate{})
	}

	return func(yield func(Trial) bool) {
		i := 0
		for cand := range locations {
			for _, v := range variants {
				if !yield(p.trial(i, cand, v, base)) {
					return
				}
				i++
			}
		}
	}
}

func (p *Package) trial(index int, cand location.Candidate, v Variant, base env.Record) Trial {
	rec := base.Clone()
	rec.AddDefines(v.Defines...)
	rec.AddCFlags(v.CFlags...)
	rec.AddLDFlags(v.LDFlags...)
	rec.AddFrameworks(v.Frameworks...)

	libs := p.Libraries
	if v.Libraries != nil {
		libs = v.Libraries
	}

	// Candidate paths go first so a package's own install shadows whatever
	// earlier tiers put on the search path.
	var include, lib []string
	include = appendMissing(include, cand.Include...)
	include = appendMissing(include, rec.Include...)
	lib = appendMissing(lib, cand.Lib...)
	lib = appendMissing(lib, rec.Lib...)

	return Trial{
		Index:     index,
		Candidate: cand,
		Variant:   v,
		Record:    rec,
		Request: probe.Request{
			Package:    p.Name,
			Root:       cand.Root,
			Variant:    v.Name,
			Headers:    slices.Clone(p.Headers),
			Libraries:  slices.Clone(libs),
			LinkWith:   slices.Clone(rec.Libs),
			Include:    include,
			Lib:        lib,
			Defines:    slices.Clone(rec.Defines),
			CFlags:     slices.Clone(rec.CFlags),
			LDFlags:    slices.Clone(rec.LDFlags),
			Frameworks: slices.Clone(rec.Frameworks),
		},
	}
}

// Accept folds a successful probe result into the trial's record.
func (t Trial) Accept(res probe.Result) env.Record {
	rec := t.Record.Clone()
	rec.AddInclude(res.Include...)
	rec.AddLib(res.Lib...)
	if res.Library != "" {
		rec.AddLibs(res.Library)
	}
	return rec
}

func appendMissing(dst []string, items ...string) []string {
	for _, item := range items {
		if item != "" && !slices.Contains(dst, item) {
			dst = append(dst, item)
		}
	}
	return dst
}

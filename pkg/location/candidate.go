// Package location enumerates where a package might be installed.
//
// A Sequence is a finite, restartable iterator of Candidates: ranging over it
// twice yields the same candidates and has no side effects beyond reading
// the filesystem for glob and store based roots.
package location

import (
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arc-language/buildenv/pkg/env"
)

// Candidate is one install location to probe. Treat it as immutable.
type Candidate struct {
	Root    string
	Include []string
	Lib     []string
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s (include=%v lib=%v)", c.Root, c.Include, c.Lib)
}

func (c Candidate) key() string {
	return c.Root + "\x00" + strings.Join(c.Include, "\x01") + "\x00" + strings.Join(c.Lib, "\x01")
}

// Sequence is a lazy, restartable stream of candidates.
type Sequence = iter.Seq[Candidate]

// New builds a candidate for root using layout's relative directories.
func New(root string, layout env.Layout) Candidate {
	c := Candidate{Root: root}
	for _, dir := range layout.Includes {
		c.Include = append(c.Include, filepath.Join(root, dir))
	}
	for _, dir := range layout.Libraries {
		c.Lib = append(c.Lib, filepath.Join(root, dir))
	}
	return c
}

// Slice yields the given candidates in order.
func Slice(cands ...Candidate) Sequence {
	return func(yield func(Candidate) bool) {
		for _, c := range cands {
			if !yield(c) {
				return
			}
		}
	}
}

// FromRoots yields one candidate per root.
func FromRoots(roots []string, layout env.Layout) Sequence {
	roots = slices.Clone(roots)
	return func(yield func(Candidate) bool) {
		for _, root := range roots {
			if root == "" {
				continue
			}
			if !yield(New(root, layout)) {
				return
			}
		}
	}
}

// Default yields the platform-conventional install roots.
func Default(goos, goarch, home string) Sequence {
	return FromRoots(env.DefaultRoots(goos, home), env.LayoutFor(goos, goarch))
}

// Concat yields every candidate of each sequence in turn.
func Concat(seqs ...Sequence) Sequence {
	return func(yield func(Candidate) bool) {
		for _, seq := range seqs {
			if seq == nil {
				continue
			}
			for c := range seq {
				if !yield(c) {
					return
				}
			}
		}
	}
}

// Dedupe drops candidates identical to one already yielded.
func Dedupe(seq Sequence) Sequence {
	return func(yield func(Candidate) bool) {
		seen := make(map[string]bool)
		for c := range seq {
			k := c.key()
			if seen[k] {
				continue
			}
			seen[k] = true
			if !yield(c) {
				return
			}
		}
	}
}

// Collect drains seq into a slice.
func Collect(seq Sequence) []Candidate {
	var out []Candidate
	if seq == nil {
		return out
	}
	for c := range seq {
		out = append(out, c)
	}
	return out
}

package location

import (
	"path/filepath"
	"slices"
)

// Extend yields every candidate of seq followed by a broadened copy whose
// include set also holds subdir below each original include dir. The
// unextended candidate always comes first.
func Extend(seq Sequence, subdir string) Sequence {
	return ExtendAll(seq, subdir)
}

// ExtendAll applies several subdirectory rules at once: for each candidate
// of seq it yields the candidate itself, then one broadened copy per rule,
// in rule order.
func ExtendAll(seq Sequence, subdirs ...string) Sequence {
	subdirs = slices.Clone(subdirs)
	return func(yield func(Candidate) bool) {
		for c := range seq {
			if !yield(c) {
				return
			}
			for _, sub := range subdirs {
				if sub == "" {
					continue
				}
				if !yield(withSubdir(c, sub)) {
					return
				}
			}
		}
	}
}

func withSubdir(c Candidate, sub string) Candidate {
	include := slices.Clone(c.Include)
	for _, dir := range c.Include {
		include = append(include, filepath.Join(dir, sub))
	}
	return Candidate{
		Root:    c.Root,
		Include: include,
		Lib:     slices.Clone(c.Lib),
	}
}

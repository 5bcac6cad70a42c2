package location

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"zombiezen.com/go/nix"

	"github.com/arc-language/buildenv/pkg/env"
)

// LookupFunc reads an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvRoots yields a candidate for each variable in vars that is set to a
// non-empty value. Variables are consulted each time the sequence runs.
func EnvRoots(lookup LookupFunc, vars []string, layout env.Layout) Sequence {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	vars = slices.Clone(vars)
	return func(yield func(Candidate) bool) {
		for _, v := range vars {
			root, ok := lookup(v)
			if !ok || root == "" {
				continue
			}
			if !yield(New(filepath.Clean(root), layout)) {
				return
			}
		}
	}
}

// Glob expands doublestar patterns (e.g. "/opt/**/openmpi*") into existing
// directories and yields one candidate per match. Matches of one pattern
// come in lexical order; patterns keep their given order.
func Glob(patterns []string, layout env.Layout) Sequence {
	patterns = slices.Clone(patterns)
	return func(yield func(Candidate) bool) {
		for _, pattern := range patterns {
			dirs, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				continue
			}
			sort.Strings(dirs)
			for _, dir := range dirs {
				if !isDir(dir) {
					continue
				}
				if !yield(New(dir, layout)) {
					return
				}
			}
		}
	}
}

// NixStore yields store objects in storeDir whose name is one of names or
// starts with one of names followed by a version or output suffix
// (e.g. "zlib-1.3.1-dev" for "zlib"). Dev outputs are yielded before the
// others of the same name since they carry the headers.
func NixStore(storeDir string, names []string, layout env.Layout) Sequence {
	if storeDir == "" {
		storeDir = string(nix.DefaultStoreDirectory)
	}
	names = slices.Clone(names)
	return func(yield func(Candidate) bool) {
		entries, err := os.ReadDir(storeDir)
		if err != nil {
			return
		}

		var dev, other []string
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			full := filepath.Join(storeDir, entry.Name())
			sp, err := nix.ParseStorePath(full)
			if err != nil {
				continue
			}
			if !matchesStoreName(sp.Name(), names) {
				continue
			}
			if strings.HasSuffix(sp.Name(), "-dev") {
				dev = append(dev, full)
			} else {
				other = append(other, full)
			}
		}

		for _, root := range append(dev, other...) {
			if !yield(New(root, layout)) {
				return
			}
		}
	}
}

func matchesStoreName(storeName string, names []string) bool {
	for _, n := range names {
		if storeName == n {
			return true
		}
		rest, ok := strings.CutPrefix(storeName, n+"-")
		if ok && rest != "" && (rest[0] >= '0' && rest[0] <= '9' || rest == "dev" || rest == "lib") {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// pkg/registry/declaration.go
package registry

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arc-language/buildenv/pkg/dpkg"
	"github.com/arc-language/buildenv/pkg/env"
	"github.com/arc-language/buildenv/pkg/location"
	"github.com/arc-language/buildenv/pkg/resolve"
)

// Declaration describes one dependency: what to look for and where.
// It is the file format of deps/<name>/index.toml and of yaml/hcl
// declaration files.
type Declaration struct {
	Name     string   `toml:"name" yaml:"name" hcl:"name,label"`
	Required bool     `toml:"required" yaml:"required" hcl:"required,optional"`
	Deps     []string `toml:"deps" yaml:"deps" hcl:"deps,optional"`
	Headers  []string `toml:"headers" yaml:"headers" hcl:"headers,optional"`
	Libs     []string `toml:"libs" yaml:"libs" hcl:"libs,optional"`

	// Roots replaces the platform default install prefixes. Entries may
	// reference environment variables ($PYTHONHOME).
	Roots      []string `toml:"roots" yaml:"roots" hcl:"roots,optional"`
	RootGlobs  []string `toml:"root_globs" yaml:"root_globs" hcl:"root_globs,optional"`
	EnvVars    []string `toml:"env" yaml:"env" hcl:"env,optional"`
	Extensions []string `toml:"extensions" yaml:"extensions" hcl:"extensions,optional"`
	Nix        bool     `toml:"nix" yaml:"nix" hcl:"nix,optional"`

	// Backends names the package in system package databases, keyed by
	// backend: "dpkg" (or "apt"), "brew" and "nix". Several names may be given
	// separated by commas.
	Backends map[string]string `toml:"backends" yaml:"backends" hcl:"backends,optional"`

	Variants []VariantDecl `toml:"variants" yaml:"variants" hcl:"variant,block"`
}

// VariantDecl is the declaration form of resolve.Variant.
type VariantDecl struct {
	Name       string   `toml:"name" yaml:"name" hcl:"name,label"`
	Platforms  []string `toml:"platforms" yaml:"platforms" hcl:"platforms,optional"`
	Libs       []string `toml:"libs" yaml:"libs" hcl:"libs,optional"`
	Defines    []string `toml:"defines" yaml:"defines" hcl:"defines,optional"`
	CFlags     []string `toml:"cflags" yaml:"cflags" hcl:"cflags,optional"`
	LDFlags    []string `toml:"ldflags" yaml:"ldflags" hcl:"ldflags,optional"`
	Frameworks []string `toml:"frameworks" yaml:"frameworks" hcl:"frameworks,optional"`

	// HeaderOnly marks a variant that links nothing even when the package
	// lists libraries (e.g. a framework variant).
	HeaderOnly bool `toml:"header_only" yaml:"header_only" hcl:"header_only,optional"`
}

// Platform carries what location generation needs to know about the host.
type Platform struct {
	GOOS       string
	GOARCH     string
	Home       string
	Lookup     location.LookupFunc // defaults to os.LookupEnv
	NixStore   string              // defaults to /nix/store
	ExtraRoots []string            // searched before the default roots

	// Dpkg is consulted for declarations naming a dpkg package. Nil on
	// linux means the system database.
	Dpkg *dpkg.Database
}

// Package builds the resolvable package for d on plat.
//
// Candidates come in this order: roots named by environment variables,
// then prefixes owned by the package's dpkg packages, then Homebrew kegs
// of its formulae, then explicit roots
// (or extra roots followed by the platform defaults), then glob matches,
// then nix store objects. Each base candidate is
// followed by its subdirectory extensions, and duplicates are dropped.
func (d *Declaration) Package(plat Platform) *resolve.Package {
	layout := env.LayoutFor(plat.GOOS, plat.GOARCH)
	lookup := plat.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var roots location.Sequence
	if len(d.Roots) > 0 {
		roots = location.FromRoots(expandRoots(d.Roots, lookup), layout)
	} else {
		roots = location.Concat(
			location.FromRoots(plat.ExtraRoots, layout),
			location.FromRoots(env.DefaultRoots(plat.GOOS, plat.Home), layout),
		)
	}

	seqs := []location.Sequence{
		location.EnvRoots(lookup, d.EnvVars, layout),
		d.dpkgLocations(plat, layout),
		location.FromRoots(d.brewKegs(plat), layout),
		roots,
		location.Glob(d.RootGlobs, layout),
	}
	if d.Nix || d.backend("nix") != nil {
		names := d.backend("nix")
		if names == nil {
			names = []string{d.Name}
		}
		seqs = append(seqs, location.NixStore(plat.NixStore, names, layout))
		if plat.Home != "" {
			seqs = append(seqs, location.FromRoots([]string{filepath.Join(plat.Home, ".nix-profile")}, layout))
		}
	}

	pkg := &resolve.Package{
		Name:      d.Name,
		Required:  d.Required,
		Deps:      slices.Clone(d.Deps),
		Headers:   slices.Clone(d.Headers),
		Libraries: slices.Clone(d.Libs),
		Locations: location.Dedupe(location.ExtendAll(location.Concat(seqs...), d.Extensions...)),
	}
	for _, v := range d.Variants {
		pkg.Variants = append(pkg.Variants, v.variant())
	}
	return pkg
}

// backend returns the package names d declares for backend, or nil.
func (d *Declaration) backend(names ...string) []string {
	for _, b := range names {
		if v, ok := d.Backends[b]; ok {
			var out []string
			for _, n := range strings.Split(v, ",") {
				if n = strings.TrimSpace(n); n != "" {
					out = append(out, n)
				}
			}
			return out
		}
	}
	return nil
}

// dpkgLocations yields one candidate per install prefix of the declared
// dpkg packages. The database is read when the sequence first runs.
func (d *Declaration) dpkgLocations(plat Platform, layout env.Layout) location.Sequence {
	names := d.backend("dpkg", "apt")
	if len(names) == 0 || plat.GOOS != "linux" {
		return location.Slice()
	}
	db := plat.Dpkg
	if db == nil {
		db = dpkg.Open("", dpkg.ArchitectureFor(plat.GOARCH))
	}
	headers, libs := slices.Clone(d.Headers), libraryNames(d)

	return func(yield func(location.Candidate) bool) {
		for _, loc := range db.Locate(names, headers, libs) {
			c := location.New(loc.Root, layout)
			c.Include = appendMissing(c.Include, loc.Include...)
			c.Lib = appendMissing(slices.Clone(loc.Lib), c.Lib...)
			if !yield(c) {
				return
			}
		}
	}
}

// brewKegs returns <prefix>/opt/<formula> for every Homebrew prefix of the
// platform and every formula d names.
func (d *Declaration) brewKegs(plat Platform) []string {
	formulae := d.backend("brew")
	if len(formulae) == 0 {
		return nil
	}
	var prefixes []string
	switch plat.GOOS {
	case "darwin":
		prefixes = []string{"/opt/homebrew", "/usr/local"}
	case "linux":
		prefixes = []string{"/home/linuxbrew/.linuxbrew"}
		if plat.Home != "" {
			prefixes = append(prefixes, filepath.Join(plat.Home, ".linuxbrew"))
		}
	}

	var kegs []string
	for _, p := range prefixes {
		for _, f := range formulae {
			kegs = append(kegs, filepath.Join(p, "opt", f))
		}
	}
	return kegs
}

// libraryNames lists every library name d may link, package level first.
func libraryNames(d *Declaration) []string {
	out := slices.Clone(d.Libs)
	for _, v := range d.Variants {
		out = appendMissing(out, v.Libs...)
	}
	return out
}

func appendMissing(dst []string, items ...string) []string {
	for _, item := range items {
		if item != "" && !slices.Contains(dst, item) {
			dst = append(dst, item)
		}
	}
	return dst
}

func (v VariantDecl) variant() resolve.Variant {
	out := resolve.Variant{
		Name:       v.Name,
		Platforms:  slices.Clone(v.Platforms),
		Libraries:  slices.Clone(v.Libs),
		Defines:    slices.Clone(v.Defines),
		CFlags:     slices.Clone(v.CFlags),
		LDFlags:    slices.Clone(v.LDFlags),
		Frameworks: slices.Clone(v.Frameworks),
	}
	if v.HeaderOnly {
		out.Libraries = []string{}
	}
	return out
}

func expandRoots(roots []string, lookup location.LookupFunc) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		expanded := os.Expand(r, func(key string) string {
			v, _ := lookup(key)
			return v
		})
		if expanded == "" || expanded == "/" && r != "/" {
			continue
		}
		out = append(out, filepath.Clean(expanded))
	}
	return out
}

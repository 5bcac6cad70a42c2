// pkg/dpkg/database.go
package dpkg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Open returns the database below dir for arch. Nothing is read until the
// first query. An empty dir means DefaultDir.
func Open(dir string, arch Architecture) *Database {
	if dir == "" {
		dir = DefaultDir
	}
	return &Database{Dir: dir, Arch: arch}
}

func (d *Database) load() error {
	d.once.Do(func() {
		d.packages = make(map[string][]*PackageInfo)
		d.providers = make(map[string][]*PackageInfo)

		f, err := os.Open(filepath.Join(d.Dir, "status"))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return
			}
			d.err = fmt.Errorf("opening dpkg status: %w", err)
			return
		}
		defer f.Close()

		pkgs, err := ParseStatus(f)
		if err != nil {
			d.err = err
			return
		}
		for _, p := range pkgs {
			d.packages[p.Package] = append(d.packages[p.Package], p)
			for _, v := range p.Provides {
				d.providers[v] = append(d.providers[v], p)
			}
		}
	})
	return d.err
}

// Installed returns the installed entry for name matching the database
// architecture. When no real package has that name, the first installed
// package providing it as a virtual package is returned.
func (d *Database) Installed(name string) (*PackageInfo, bool) {
	if err := d.load(); err != nil {
		return nil, false
	}
	for _, candidates := range [][]*PackageInfo{d.packages[name], d.providers[name]} {
		for _, p := range candidates {
			if p.Installed() && d.Arch.matches(p.Architecture) {
				return p, true
			}
		}
	}
	return nil, false
}

// expand returns names followed by the direct dependencies of the installed
// ones, so transitional and meta packages reach the package owning the
// files.
func (d *Database) expand(names []string) []*PackageInfo {
	var out []*PackageInfo
	seen := make(map[string]bool)
	add := func(name string) *PackageInfo {
		p, ok := d.Installed(name)
		if !ok || seen[p.Package] {
			return nil
		}
		seen[p.Package] = true
		out = append(out, p)
		return p
	}

	var direct []*PackageInfo
	for _, name := range names {
		if p := add(name); p != nil {
			direct = append(direct, p)
		}
	}
	for _, p := range direct {
		for _, dep := range p.Depends {
			add(dep)
		}
	}
	return out
}

// Files lists the paths owned by an installed package.
func (d *Database) Files(p *PackageInfo) ([]string, error) {
	names := []string{p.Package + ".list"}
	if p.Architecture != "" {
		names = append([]string{p.Package + ":" + p.Architecture + ".list"}, names...)
	}

	for _, name := range names {
		f, err := os.Open(filepath.Join(d.Dir, "info", name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("opening file list: %w", err)
		}
		files, err := ParseFileList(f)
		f.Close()
		return files, err
	}
	return nil, fmt.Errorf("no file list for %s", p.Package)
}

// Locate inspects the installed packages among names, and their direct
// dependencies, and returns one
// Location per install prefix that holds any of headers or libs. Packages
// that are not installed are skipped. Prefixes come in the order their
// first file appears.
func (d *Database) Locate(names, headers, libs []string) []Location {
	var out []Location
	index := make(map[string]int)

	at := func(root string) *Location {
		i, ok := index[root]
		if !ok {
			i = len(out)
			index[root] = i
			out = append(out, Location{Root: root})
		}
		return &out[i]
	}

	for _, p := range d.expand(names) {
		files, err := d.Files(p)
		if err != nil {
			continue
		}

		for _, file := range files {
			if dir, ok := headerDir(file, headers); ok {
				loc := at(prefix(dir, "/include"))
				if !slices.Contains(loc.Include, dir) {
					loc.Include = append(loc.Include, dir)
				}
				continue
			}
			if isLibrary(path.Base(file), libs) {
				dir := path.Dir(file)
				loc := at(prefix(dir, "/lib"))
				if !slices.Contains(loc.Lib, dir) {
					loc.Lib = append(loc.Lib, dir)
				}
			}
		}
	}
	return out
}

// headerDir returns the include dir of file when it is one of headers.
// Headers may carry a directory, e.g. "GL/gl.h".
func headerDir(file string, headers []string) (string, bool) {
	for _, h := range headers {
		if dir, ok := strings.CutSuffix(file, "/"+h); ok && strings.Contains(dir, "/include") {
			return dir, true
		}
	}
	return "", false
}

// isLibrary matches lib<name>.so, lib<name>.so.N and lib<name>.a.
func isLibrary(base string, libs []string) bool {
	for _, l := range libs {
		stem := "lib" + l
		if base == stem+".a" || base == stem+".so" || strings.HasPrefix(base, stem+".so.") {
			return true
		}
	}
	return false
}

// prefix returns the part of dir before the last occurrence of marker,
// or dir's parent when marker does not occur.
func prefix(dir, marker string) string {
	switch i := strings.LastIndex(dir, marker); {
	case i > 0:
		return dir[:i]
	case i == 0:
		return "/"
	}
	return path.Dir(dir)
}

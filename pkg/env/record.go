// pkg/env/record.go
package env

import (
	"encoding/hex"
	"slices"
	"strings"

	"lukechampine.com/blake3"
)

// Record is a build configuration: ordered sets of search paths, library
// names and flags. Every Add is idempotent; the first insertion fixes an
// entry's position.
type Record struct {
	Include    []string `yaml:"include,omitempty"`
	Lib        []string `yaml:"lib,omitempty"`
	Libs       []string `yaml:"libs,omitempty"`
	Defines    []string `yaml:"defines,omitempty"`
	CFlags     []string `yaml:"cflags,omitempty"`
	LDFlags    []string `yaml:"ldflags,omitempty"`
	Frameworks []string `yaml:"frameworks,omitempty"`
}

// AddInclude appends include directories not already present
func (r *Record) AddInclude(dirs ...string) { r.Include = appendUnique(r.Include, dirs...) }

// AddLib appends library search directories not already present
func (r *Record) AddLib(dirs ...string) { r.Lib = appendUnique(r.Lib, dirs...) }

// AddLibs appends library names not already present
func (r *Record) AddLibs(names ...string) { r.Libs = appendUnique(r.Libs, names...) }

// AddDefines appends preprocessor defines (NAME or NAME=VALUE)
func (r *Record) AddDefines(defs ...string) { r.Defines = appendUnique(r.Defines, defs...) }

// AddCFlags appends extra compiler flags
func (r *Record) AddCFlags(flags ...string) { r.CFlags = appendUnique(r.CFlags, flags...) }

// AddLDFlags appends extra linker flags
func (r *Record) AddLDFlags(flags ...string) { r.LDFlags = appendUnique(r.LDFlags, flags...) }

// AddFrameworks appends darwin framework names
func (r *Record) AddFrameworks(names ...string) { r.Frameworks = appendUnique(r.Frameworks, names...) }

// Merge folds every entry of other into r, in other's order.
func (r *Record) Merge(other Record) {
	r.AddInclude(other.Include...)
	r.AddLib(other.Lib...)
	r.AddLibs(other.Libs...)
	r.AddDefines(other.Defines...)
	r.AddCFlags(other.CFlags...)
	r.AddLDFlags(other.LDFlags...)
	r.AddFrameworks(other.Frameworks...)
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	return Record{
		Include:    slices.Clone(r.Include),
		Lib:        slices.Clone(r.Lib),
		Libs:       slices.Clone(r.Libs),
		Defines:    slices.Clone(r.Defines),
		CFlags:     slices.Clone(r.CFlags),
		LDFlags:    slices.Clone(r.LDFlags),
		Frameworks: slices.Clone(r.Frameworks),
	}
}

// Diff returns the entries of r that are absent from base.
func (r Record) Diff(base Record) Record {
	return Record{
		Include:    subtract(r.Include, base.Include),
		Lib:        subtract(r.Lib, base.Lib),
		Libs:       subtract(r.Libs, base.Libs),
		Defines:    subtract(r.Defines, base.Defines),
		CFlags:     subtract(r.CFlags, base.CFlags),
		LDFlags:    subtract(r.LDFlags, base.LDFlags),
		Frameworks: subtract(r.Frameworks, base.Frameworks),
	}
}

// IsEmpty reports whether r holds no entries at all.
func (r Record) IsEmpty() bool {
	return len(r.Include) == 0 && len(r.Lib) == 0 && len(r.Libs) == 0 &&
		len(r.Defines) == 0 && len(r.CFlags) == 0 && len(r.LDFlags) == 0 &&
		len(r.Frameworks) == 0
}

// Equal reports whether r and other hold the same entries in the same order.
func (r Record) Equal(other Record) bool {
	return slices.Equal(r.Include, other.Include) &&
		slices.Equal(r.Lib, other.Lib) &&
		slices.Equal(r.Libs, other.Libs) &&
		slices.Equal(r.Defines, other.Defines) &&
		slices.Equal(r.CFlags, other.CFlags) &&
		slices.Equal(r.LDFlags, other.LDFlags) &&
		slices.Equal(r.Frameworks, other.Frameworks)
}

// Flags renders r as compiler and linker flags.
func (r Record) Flags() CompilerFlags {
	var f CompilerFlags
	for _, dir := range r.Include {
		f.IncludeFlags = append(f.IncludeFlags, "-I"+dir)
	}
	for _, def := range r.Defines {
		f.DefineFlags = append(f.DefineFlags, "-D"+def)
	}
	for _, dir := range r.Lib {
		f.LibraryFlags = append(f.LibraryFlags, "-L"+dir)
	}
	for _, name := range r.Libs {
		f.LinkFlags = append(f.LinkFlags, "-l"+name)
	}
	for _, fw := range r.Frameworks {
		f.FrameworkFlags = append(f.FrameworkFlags, "-framework", fw)
	}
	f.CFlags = slices.Clone(r.CFlags)
	f.LDFlags = slices.Clone(r.LDFlags)
	return f
}

// Fingerprint returns a stable hex digest of r's contents and order.
func (r Record) Fingerprint() string {
	var b strings.Builder
	for _, part := range [][]string{r.Include, r.Lib, r.Libs, r.Defines, r.CFlags, r.LDFlags, r.Frameworks} {
		for _, s := range part {
			b.WriteString(s)
			b.WriteByte(0)
		}
		b.WriteByte(1)
	}
	sum := blake3.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		if item == "" || slices.Contains(dst, item) {
			continue
		}
		dst = append(dst, item)
	}
	return dst
}

func subtract(items, base []string) []string {
	var out []string
	for _, item := range items {
		if !slices.Contains(base, item) {
			out = append(out, item)
		}
	}
	return out
}

// pkg/registry/registry.go
package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/buildenv/pkg/resolve"
	"github.com/arc-language/buildenv/pkg/tier"
)

// ErrNotFound is returned by Get for an undeclared name.
var ErrNotFound = errors.New("registry: package not declared")

// Registry holds package declarations in declaration order.
type Registry struct {
	decls []Declaration
	index map[string]int
}

// New creates a registry from decls. Two declarations of the same name
// are rejected.
func New(decls ...Declaration) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(decls))}
	for _, d := range decls {
		if err := r.add(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(d Declaration) error {
	if d.Name == "" {
		return fmt.Errorf("registry: declaration without a name")
	}
	if _, dup := r.index[d.Name]; dup {
		return &tier.DuplicatePackageError{Name: d.Name}
	}
	r.index[d.Name] = len(r.decls)
	r.decls = append(r.decls, d)
	return nil
}

// Get returns the declaration called name.
func (r *Registry) Get(name string) (Declaration, error) {
	i, ok := r.index[name]
	if !ok {
		return Declaration{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return r.decls[i], nil
}

// Names lists declared names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.decls))
	for i, d := range r.decls {
		names[i] = d.Name
	}
	return names
}

// Declarations returns a copy of all declarations in order.
func (r *Registry) Declarations() []Declaration {
	return slices.Clone(r.decls)
}

// Len reports the number of declarations.
func (r *Registry) Len() int { return len(r.decls) }

// Merge returns a registry holding r's declarations with those of other
// layered on top: a declaration in other replaces the one of the same name
// in place, new names are appended.
func (r *Registry) Merge(other *Registry) *Registry {
	out := &Registry{index: make(map[string]int, len(r.decls))}
	for _, d := range r.decls {
		out.index[d.Name] = len(out.decls)
		out.decls = append(out.decls, d)
	}
	if other == nil {
		return out
	}
	for _, d := range other.decls {
		if i, ok := out.index[d.Name]; ok {
			out.decls[i] = d
			continue
		}
		out.index[d.Name] = len(out.decls)
		out.decls = append(out.decls, d)
	}
	return out
}

// Packages builds a resolvable package for every declaration, in order.
func (r *Registry) Packages(plat Platform) []*resolve.Package {
	pkgs := make([]*resolve.Package, len(r.decls))
	for i := range r.decls {
		pkgs[i] = r.decls[i].Package(plat)
	}
	return pkgs
}

// Nodes returns the dependency graph of the declarations.
func (r *Registry) Nodes() []tier.Node {
	nodes := make([]tier.Node, len(r.decls))
	for i, d := range r.decls {
		nodes[i] = tier.Node{Name: d.Name, Deps: slices.Clone(d.Deps)}
	}
	return nodes
}

// Load reads a declaration directory. Each <dir>/<name>/index.toml holds one
// declaration (its name defaults to the directory name). Top-level *.yaml,
// *.yml and *.hcl files may hold several. Directory entries are read in
// lexical order so the result is stable.
func Load(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("registry: %s not found, run sync first", dir)
		}
		return nil, fmt.Errorf("registry: failed to read %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	r := &Registry{index: make(map[string]int)}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		var decls []Declaration
		switch {
		case entry.IsDir():
			d, err := loadIndex(path, entry.Name())
			if err != nil {
				return nil, err
			}
			if d == nil {
				continue
			}
			decls = []Declaration{*d}
		case strings.HasSuffix(entry.Name(), ".yaml"), strings.HasSuffix(entry.Name(), ".yml"):
			decls, err = loadYAML(path)
		case strings.HasSuffix(entry.Name(), ".hcl"):
			decls, err = loadHCL(path)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}

		for _, d := range decls {
			if err := r.add(d); err != nil {
				return nil, fmt.Errorf("registry: %s: %w", path, err)
			}
		}
	}
	return r, nil
}

// loadIndex reads <dir>/index.toml. A directory without one is skipped.
func loadIndex(dir, name string) (*Declaration, error) {
	path := filepath.Join(dir, "index.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("registry: failed to read '%s': %w", path, err)
	}

	var d Declaration
	if _, err := toml.Decode(string(data), &d); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", name, err)
	}
	if d.Name == "" {
		d.Name = name
	}
	return &d, nil
}

type yamlFile struct {
	Packages []Declaration `yaml:"packages"`
}

func loadYAML(path string) ([]Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to read '%s': %w", path, err)
	}
	var f yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", path, err)
	}
	return f.Packages, nil
}

type hclFile struct {
	Packages []Declaration `hcl:"package,block"`
}

func loadHCL(path string) ([]Declaration, error) {
	var f hclFile
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", path, err)
	}
	return f.Packages, nil
}

package resolve

import (
	"context"
	"fmt"
	"sync"

	"github.com/arc-language/buildenv/pkg/env"
	"github.com/arc-language/buildenv/pkg/location"
	"github.com/arc-language/buildenv/pkg/probe"
)

var flat = env.Layout{Includes: []string{"include"}, Libraries: []string{"lib"}}

// fakeToolchain accepts a request when its root is installed for the
// package and, if given, the variant matches.
type fakeToolchain struct {
	mu        sync.Mutex
	installed map[string]string // package/root -> variant ("" = any)
	calls     []string
}

func newFakeToolchain() *fakeToolchain {
	return &fakeToolchain{installed: make(map[string]string)}
}

func (f *fakeToolchain) install(pkg, root, variant string) *fakeToolchain {
	f.installed[pkg+"@"+root] = variant
	return f
}

func (f *fakeToolchain) Probe(ctx context.Context, req probe.Request) (probe.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.Package+"@"+req.Root+"["+req.Variant+"]")
	variant, ok := f.installed[req.Package+"@"+req.Root]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return probe.Result{}, err
	}
	if !ok || (variant != "" && variant != req.Variant) {
		return probe.Result{}, fmt.Errorf("%w: %s not at %s", probe.ErrProbeFailed, req.Package, req.Root)
	}
	res := probe.Result{}
	if len(req.Headers) > 0 {
		res.Include = []string{req.Root + "/include"}
	}
	if len(req.Libraries) > 0 {
		res.Lib = []string{req.Root + "/lib"}
		res.Library = req.Libraries[len(req.Libraries)-1]
	}
	return res, nil
}

func (f *fakeToolchain) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func pkg(name string, required bool, deps ...string) *Package {
	return &Package{
		Name:      name,
		Required:  required,
		Deps:      deps,
		Headers:   []string{name + ".h"},
		Libraries: []string{name},
		Locations: location.FromRoots([]string{"/loc1/" + name, "/loc2/" + name}, flat),
	}
}

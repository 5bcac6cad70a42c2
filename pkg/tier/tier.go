// Package tier partitions packages into dependency-ordered tiers.
//
// Every package lands in the first tier after all of its dependencies, so a
// tier never contains an edge between two of its own members and packages in
// one tier may be handled in any order once earlier tiers are done.
package tier

import (
	"slices"
	"sort"
)

// Node is a package name with the names it depends on.
type Node struct {
	Name string
	Deps []string
}

// Tier is an ordered batch of package names.
type Tier []string

// Validate checks that names are unique and every dependency is declared.
func Validate(nodes []Node) error {
	declared := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if declared[n.Name] {
			return &DuplicatePackageError{Name: n.Name}
		}
		declared[n.Name] = true
	}
	for _, n := range nodes {
		for _, dep := range n.Deps {
			if !declared[dep] {
				return &UnknownDependencyError{Package: n.Name, Dependency: dep}
			}
		}
	}
	return nil
}

// Resolve orders nodes into tiers. Each pass over the remaining nodes moves
// every node whose dependencies all sit in earlier tiers into a new tier,
// preserving input order. A pass that moves nothing means a cycle; in that
// case no tiers are returned.
func Resolve(nodes []Node) ([]Tier, error) {
	if err := Validate(nodes); err != nil {
		return nil, err
	}

	placed := make(map[string]bool, len(nodes))
	remaining := slices.Clone(nodes)
	var tiers []Tier

	for len(remaining) > 0 {
		var current Tier
		next := remaining[:0:0]
		for _, n := range remaining {
			if allPlaced(n.Deps, placed) {
				current = append(current, n.Name)
			} else {
				next = append(next, n)
			}
		}

		if len(current) == 0 {
			names := make([]string, 0, len(next))
			for _, n := range next {
				names = append(names, n.Name)
			}
			sort.Strings(names)
			return nil, &CyclicDependencyError{Remaining: names}
		}

		// Promote only after the pass so members of one tier never depend
		// on each other.
		for _, name := range current {
			placed[name] = true
		}
		tiers = append(tiers, current)
		remaining = next
	}

	return tiers, nil
}

// Index maps each name to the position of its tier.
func Index(tiers []Tier) map[string]int {
	idx := make(map[string]int)
	for i, t := range tiers {
		for _, name := range t {
			idx[name] = i
		}
	}
	return idx
}

// Closure returns the names of roots and everything they transitively depend
// on, in the order nodes were given. Unknown names are ignored.
func Closure(nodes []Node, roots []string) []Node {
	byName := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byName[n.Name] = n
	}

	want := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		if want[name] {
			return
		}
		n, ok := byName[name]
		if !ok {
			return
		}
		want[name] = true
		for _, dep := range n.Deps {
			visit(dep)
		}
	}
	for _, r := range roots {
		visit(r)
	}

	var out []Node
	for _, n := range nodes {
		if want[n.Name] {
			out = append(out, n)
		}
	}
	return out
}

func allPlaced(deps []string, placed map[string]bool) bool {
	for _, d := range deps {
		if !placed[d] {
			return false
		}
	}
	return true
}

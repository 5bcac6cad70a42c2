package tier

import (
	"fmt"
	"strings"
)

// CyclicDependencyError is returned when the remaining nodes cannot be
// placed in any tier because they depend on each other.
type CyclicDependencyError struct {
	Remaining []string // sorted names of the nodes that could not be placed
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency among: %s", strings.Join(e.Remaining, ", "))
}

// UnknownDependencyError is returned when a node depends on a name that was
// never declared.
type UnknownDependencyError struct {
	Package    string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("package %q depends on undeclared package %q", e.Package, e.Dependency)
}

// DuplicatePackageError is returned when the same name is declared twice.
type DuplicatePackageError struct {
	Name string
}

func (e *DuplicatePackageError) Error() string {
	return fmt.Sprintf("package %q declared more than once", e.Name)
}

package resolve

import (
	"errors"
	"fmt"
)

// ErrOptionalUnresolved marks an optional package that could not be
// located. It is recoverable: the run continues without the package.
var ErrOptionalUnresolved = errors.New("optional package unresolved")

// PackageNotFoundError is returned when a required package exhausted every
// candidate, or when one of its dependencies did not resolve.
type PackageNotFoundError struct {
	Package  string
	Attempts []Attempt
	Cause    error // set when a dependency, not a probe, was the reason
}

func (e *PackageNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("required package %q not found: %v", e.Package, e.Cause)
	}
	return fmt.Sprintf("required package %q not found after %d attempts", e.Package, len(e.Attempts))
}

func (e *PackageNotFoundError) Unwrap() error {
	return e.Cause
}

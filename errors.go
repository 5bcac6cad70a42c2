// errors.go
package buildenv

import (
	"errors"
	"fmt"
)

var (
	// ErrPackageNotFound indicates the package is not declared
	ErrPackageNotFound = errors.New("package not declared")

	// ErrCompilerNotAvailable indicates no usable compiler was found
	ErrCompilerNotAvailable = errors.New("compiler not available")

	// ErrPlatformNotSupported indicates the platform is not supported
	ErrPlatformNotSupported = errors.New("platform not supported")
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

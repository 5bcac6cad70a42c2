// Package probe is the boundary to the toolchain: it checks whether a set of
// headers and libraries is usable from a given set of search paths.
package probe

import (
	"context"
	"errors"
	"fmt"
)

// ErrProbeFailed indicates the candidate does not satisfy the request.
var ErrProbeFailed = errors.New("probe failed")

// Request describes one compile/link feasibility check.
type Request struct {
	Package string // for diagnostics
	Root    string // candidate root, for diagnostics
	Variant string // variant name, for diagnostics

	Headers   []string // all must be found
	Libraries []string // ordered alternatives; at least one must link
	LinkWith  []string // already resolved libraries linked after the probed one

	Include    []string
	Lib        []string
	Defines    []string
	CFlags     []string
	LDFlags    []string
	Frameworks []string
}

// Result holds the concrete paths and library that satisfied a Request.
type Result struct {
	Include []string // dirs where the headers were found
	Lib     []string // dir where the library was found
	Library string   // the library alternative that linked; empty if none needed
}

// Prober runs a single probe. It returns ErrProbeFailed (possibly wrapped)
// when the candidate does not satisfy the request and an *ExecutionError
// when the toolchain could not be run at all.
type Prober interface {
	Probe(ctx context.Context, req Request) (Result, error)
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, req Request) (Result, error)

// Probe calls f(ctx, req).
func (f ProberFunc) Probe(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// ExecutionError reports that the toolchain could not be invoked.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("running %s: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IsCandidateFailure reports whether err only rules out the probed candidate,
// as opposed to a cancellation that should stop resolution.
func IsCandidateFailure(err error) bool {
	var execErr *ExecutionError
	return errors.Is(err, ErrProbeFailed) || errors.As(err, &execErr)
}

// Package logsink is the process-wide, append-only diagnostic log.
//
// Every probe attempt and every package outcome is appended as one
// human-readable line. Writers are serialized by the sink, so lines from
// concurrent probes never interleave.
package logsink

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/ulikunitz/xz"
)

// Sink collects lines in memory and optionally mirrors them to a writer.
type Sink struct {
	mu     sync.Mutex
	lines  []string
	w      io.Writer
	closer []io.Closer
}

// New creates an in-memory sink. w may be nil.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Open creates a sink that appends to the file at path. A path ending in
// ".xz" is written as an xz stream; each run adds one stream to the file.
func Open(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	if !strings.HasSuffix(path, ".xz") {
		return &Sink{w: f, closer: []io.Closer{f}}, nil
	}

	xw, err := xz.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating xz writer: %w", err)
	}
	// The xz stream must be finished before the file is closed.
	return &Sink{w: xw, closer: []io.Closer{xw, f}}, nil
}

// Append formats and records one line.
func (s *Sink) Append(format string, args ...any) {
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = append(s.lines, line)
	if s.w != nil {
		// Diagnostic output is best effort; the in-memory copy is authoritative.
		_, _ = io.WriteString(s.w, line+"\n")
	}
}

// Lines returns a copy of every line appended so far, in order.
func (s *Sink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of lines appended so far.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Close flushes and closes any file backing the sink.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	for _, c := range s.closer {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closer = nil
	s.w = nil
	return first
}

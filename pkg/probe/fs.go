package probe

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/arc-language/buildenv/pkg/env"
)

// FileProber checks for headers and libraries on disk without invoking a
// compiler. It is used when no toolchain is configured.
type FileProber struct {
	GOOS string // defaults to runtime.GOOS

	// FrameworkDirs, when non-empty, is searched for <Name>.framework
	// bundles. When empty, frameworks are not checked.
	FrameworkDirs []string
}

// NewFileProber creates a filesystem prober for the running platform.
func NewFileProber() *FileProber {
	p := &FileProber{GOOS: runtime.GOOS}
	if p.GOOS == "darwin" {
		p.FrameworkDirs = []string{"/Library/Frameworks", "/System/Library/Frameworks"}
	}
	return p
}

// Probe implements Prober.
func (p *FileProber) Probe(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	include, err := locateHeaders(req)
	if err != nil {
		return Result{}, err
	}

	for _, fw := range req.Frameworks {
		if !p.hasFramework(fw) {
			return Result{}, fmt.Errorf("%w: framework %s not found", ErrProbeFailed, fw)
		}
	}

	res := Result{Include: include}
	if len(req.Libraries) == 0 {
		return res, nil
	}

	goos := p.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	for _, name := range req.Libraries {
		if lib := env.FindLibrary(req.Lib, name, goos); lib != nil {
			res.Lib = []string{lib.Dir}
			res.Library = name
			return res, nil
		}
	}
	return Result{}, fmt.Errorf("%w: none of libraries %v found", ErrProbeFailed, req.Libraries)
}

func (p *FileProber) hasFramework(name string) bool {
	if len(p.FrameworkDirs) == 0 {
		return true
	}
	for _, dir := range p.FrameworkDirs {
		if isDir(filepath.Join(dir, name+".framework")) {
			return true
		}
	}
	return false
}

// locateHeaders returns, in header order, the distinct dirs holding each
// header. Any missing header fails the probe.
func locateHeaders(req Request) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)
	for _, h := range req.Headers {
		dir, ok := env.FindHeader(req.Include, h)
		if !ok {
			return nil, fmt.Errorf("%w: header %s not found", ErrProbeFailed, h)
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}

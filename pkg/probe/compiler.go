package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/arc-language/buildenv/pkg/env"
)

// DefaultTimeout bounds a single compiler invocation.
const DefaultTimeout = 30 * time.Second

// RunFunc runs a tool in dir. err is non-nil only when the tool could not be
// started; a tool that ran and failed reports a non-zero exitCode.
type RunFunc func(ctx context.Context, dir, name string, args ...string) (output []byte, exitCode int, err error)

// CompilerProber compiles and links a small test program against each
// candidate. Each invocation runs under Timeout; a timed out invocation
// fails the candidate. There is no retry.
type CompilerProber struct {
	CC      string        // compiler driver, e.g. "cc" or "clang"
	Timeout time.Duration // per invocation
	WorkDir string        // parent for scratch dirs; os.TempDir() when empty
	GOOS    string        // defaults to runtime.GOOS

	Run RunFunc // defaults to os/exec
}

// NewCompilerProber creates a prober driving cc.
func NewCompilerProber(cc string, timeout time.Duration) *CompilerProber {
	if cc == "" {
		cc = "cc"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CompilerProber{CC: cc, Timeout: timeout, GOOS: runtime.GOOS}
}

// Probe implements Prober.
func (p *CompilerProber) Probe(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	scratch, err := os.MkdirTemp(p.WorkDir, "buildenv-probe-*")
	if err != nil {
		return Result{}, &ExecutionError{Tool: p.cc(), Err: err}
	}
	defer os.RemoveAll(scratch)

	if err := os.WriteFile(filepath.Join(scratch, "conftest.c"), testProgram(req.Headers), 0644); err != nil {
		return Result{}, &ExecutionError{Tool: p.cc(), Err: err}
	}

	// Headers found on disk pin the include dirs reported back; headers the
	// compiler finds on its own default path contribute no dir.
	var include []string
	for _, h := range req.Headers {
		if dir, ok := env.FindHeader(req.Include, h); ok && !contains(include, dir) {
			include = append(include, dir)
		}
	}

	if len(req.Libraries) == 0 {
		if err := p.invoke(ctx, scratch, p.args(req, "")); err != nil {
			return Result{}, err
		}
		return Result{Include: include}, nil
	}

	var lastErr error
	for _, name := range req.Libraries {
		err := p.invoke(ctx, scratch, p.args(req, name))
		if err == nil {
			res := Result{Include: include, Library: name}
			if lib := env.FindLibrary(req.Lib, name, p.goos()); lib != nil {
				res.Lib = []string{lib.Dir}
			}
			return res, nil
		}
		if !errors.Is(err, ErrProbeFailed) {
			return Result{}, err
		}
		lastErr = err
	}
	return Result{}, lastErr
}

// args builds the compiler command line. With no library and no frameworks
// the program is only compiled, not linked.
func (p *CompilerProber) args(req Request, library string) []string {
	var args []string
	args = append(args, req.CFlags...)
	for _, d := range req.Defines {
		args = append(args, "-D"+d)
	}
	for _, dir := range req.Include {
		args = append(args, "-I"+dir)
	}

	if library == "" && len(req.Frameworks) == 0 {
		return append(args, "-c", "conftest.c", "-o", "conftest.o")
	}

	args = append(args, "conftest.c", "-o", "conftest")
	for _, dir := range req.Lib {
		args = append(args, "-L"+dir)
	}
	if library != "" {
		args = append(args, "-l"+library)
	}
	for _, name := range req.LinkWith {
		args = append(args, "-l"+name)
	}
	for _, fw := range req.Frameworks {
		args = append(args, "-framework", fw)
	}
	return append(args, req.LDFlags...)
}

func (p *CompilerProber) invoke(ctx context.Context, dir string, args []string) error {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	run := p.Run
	if run == nil {
		run = execRun
	}

	out, code, err := run(runCtx, dir, p.cc(), args...)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case runCtx.Err() != nil:
		return fmt.Errorf("%w: %s timed out after %s", ErrProbeFailed, p.cc(), p.timeout())
	case err != nil:
		return &ExecutionError{Tool: p.cc(), Err: err}
	case code != 0:
		return fmt.Errorf("%w: %s exited %d: %s", ErrProbeFailed, p.cc(), code, firstLine(out))
	}
	return nil
}

func (p *CompilerProber) cc() string {
	if p.CC == "" {
		return "cc"
	}
	return p.CC
}

func (p *CompilerProber) timeout() time.Duration {
	if p.Timeout <= 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

func (p *CompilerProber) goos() string {
	if p.GOOS == "" {
		return runtime.GOOS
	}
	return p.GOOS
}

func execRun(ctx context.Context, dir, name string, args ...string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, exitErr.ExitCode(), nil
		}
		return out, -1, err
	}
	return out, 0, nil
}

func testProgram(headers []string) []byte {
	var b bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&b, "#include <%s>\n", h)
	}
	b.WriteString("int main(void) { return 0; }\n")
	return b.Bytes()
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

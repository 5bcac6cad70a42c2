package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCC links only the libraries in ok and records every command line.
type fakeCC struct {
	ok    map[string]bool
	calls [][]string
	src   string
}

func (f *fakeCC) run(ctx context.Context, dir, name string, args ...string) ([]byte, int, error) {
	f.calls = append(f.calls, args)
	if data, err := os.ReadFile(filepath.Join(dir, "conftest.c")); err == nil {
		f.src = string(data)
	}
	for _, a := range args {
		if strings.HasPrefix(a, "-l") && !f.ok[a[2:]] {
			return []byte("ld: cannot find " + a + "\nmore"), 1, nil
		}
	}
	return nil, 0, nil
}

func TestCompilerProber(t *testing.T) {
	root := t.TempDir()
	inc := filepath.Join(root, "include")
	lib := filepath.Join(root, "lib")
	touch(t, filepath.Join(inc, "mpi.h"))
	touch(t, filepath.Join(lib, "libmpich.so"))

	t.Run("tries alternatives in order", func(t *testing.T) {
		cc := &fakeCC{ok: map[string]bool{"mpich": true, "m": true}}
		p := &CompilerProber{CC: "mpicc", WorkDir: t.TempDir(), GOOS: "linux", Run: cc.run}

		res, err := p.Probe(context.Background(), Request{
			Headers:   []string{"mpi.h"},
			Libraries: []string{"mpi", "mpich"},
			LinkWith:  []string{"m"},
			Include:   []string{inc},
			Lib:       []string{lib},
			Defines:   []string{"OMPI_SKIP_MPICXX"},
		})
		require.NoError(t, err)
		assert.Equal(t, "mpich", res.Library)
		assert.Equal(t, []string{inc}, res.Include)
		assert.Equal(t, []string{lib}, res.Lib)

		require.Len(t, cc.calls, 2)
		assert.True(t, slices.Contains(cc.calls[1], "-lmpich"))
		assert.True(t, slices.Contains(cc.calls[1], "-DOMPI_SKIP_MPICXX"))
		assert.True(t, slices.Contains(cc.calls[1], "-L"+lib))
		assert.Contains(t, cc.src, "#include <mpi.h>")
	})

	t.Run("header only compiles without linking", func(t *testing.T) {
		cc := &fakeCC{}
		p := &CompilerProber{WorkDir: t.TempDir(), Run: cc.run}

		_, err := p.Probe(context.Background(), Request{Headers: []string{"mpi.h"}, Include: []string{inc}})
		require.NoError(t, err)
		require.Len(t, cc.calls, 1)
		assert.True(t, slices.Contains(cc.calls[0], "-c"))
	})

	t.Run("no alternative links", func(t *testing.T) {
		cc := &fakeCC{}
		p := &CompilerProber{WorkDir: t.TempDir(), Run: cc.run}

		_, err := p.Probe(context.Background(), Request{Libraries: []string{"mpi"}})
		assert.ErrorIs(t, err, ErrProbeFailed)
		assert.ErrorContains(t, err, "cannot find -lmpi")
		assert.NotContains(t, err.Error(), "more")
	})

	t.Run("missing compiler is an execution error", func(t *testing.T) {
		p := &CompilerProber{CC: "nope", WorkDir: t.TempDir(), Run: func(ctx context.Context, dir, name string, args ...string) ([]byte, int, error) {
			return nil, -1, errors.New("executable file not found in $PATH")
		}}

		_, err := p.Probe(context.Background(), Request{Headers: []string{"mpi.h"}})
		var execErr *ExecutionError
		require.ErrorAs(t, err, &execErr)
		assert.Equal(t, "nope", execErr.Tool)
		assert.True(t, IsCandidateFailure(err))
	})

	t.Run("timeout fails the candidate", func(t *testing.T) {
		p := &CompilerProber{Timeout: 10 * time.Millisecond, WorkDir: t.TempDir(), Run: func(ctx context.Context, dir, name string, args ...string) ([]byte, int, error) {
			<-ctx.Done()
			return nil, -1, nil
		}}

		_, err := p.Probe(context.Background(), Request{})
		assert.ErrorIs(t, err, ErrProbeFailed)
		assert.ErrorContains(t, err, "timed out")
	})
}

package resolve

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/buildenv/internal/ctxlog"
	"github.com/arc-language/buildenv/pkg/env"
	"github.com/arc-language/buildenv/pkg/location"
	"github.com/arc-language/buildenv/pkg/probe"
)

func TestTrialsOrder(t *testing.T) {
	p := &Package{
		Name: "gl",
		Variants: []Variant{
			{Name: "framework", Platforms: []string{"darwin"}, Frameworks: []string{"OpenGL"}},
			{Name: "posix", Platforms: []string{"linux", "freebsd"}, Libraries: []string{"GL"}},
			{Name: "mesa", Libraries: []string{"OSMesa"}, Defines: []string{"USE_OSMESA"}},
		},
		Locations: location.FromRoots([]string{"/usr", "/opt"}, flat),
	}

	var got []string
	for tr := range p.Trials(env.Record{}, "linux") {
		got = append(got, tr.Candidate.Root+":"+tr.Variant.Name)
	}
	assert.Equal(t, []string{"/usr:posix", "/usr:mesa", "/opt:posix", "/opt:mesa"}, got)

	var darwin []string
	for tr := range p.Trials(env.Record{}, "darwin") {
		darwin = append(darwin, tr.Variant.Name)
	}
	assert.Equal(t, []string{"framework", "mesa", "framework", "mesa"}, darwin)
}

func TestTrialRequestUsesBase(t *testing.T) {
	base := env.Record{Include: []string{"/usr/include"}, Lib: []string{"/usr/lib"}, Libs: []string{"mpi"}}
	p := &Package{
		Name:      "petsc",
		Libraries: []string{"petsc"},
		Variants:  []Variant{{Name: "default", Defines: []string{"PETSC_USE_MPI"}}},
		Locations: location.FromRoots([]string{"/opt/petsc"}, flat),
	}

	var trials []Trial
	for tr := range p.Trials(base, "linux") {
		trials = append(trials, tr)
	}
	require.Len(t, trials, 1)

	req := trials[0].Request
	assert.Equal(t, []string{"/opt/petsc/include", "/usr/include"}, req.Include)
	assert.Equal(t, []string{"/opt/petsc/lib", "/usr/lib"}, req.Lib)
	assert.Equal(t, []string{"mpi"}, req.LinkWith)
	assert.Equal(t, []string{"PETSC_USE_MPI"}, req.Defines)
	assert.Empty(t, base.Defines, "base must not be modified")
}

func TestNilLocationsUseToolchainDefaults(t *testing.T) {
	p := &Package{Name: "m", Libraries: []string{"m"}}
	var roots []string
	for tr := range p.Trials(env.Record{}, "linux") {
		roots = append(roots, tr.Candidate.Root)
	}
	assert.Equal(t, []string{""}, roots)
}

func TestResolvePackage(t *testing.T) {
	ctx := context.Background()

	t.Run("first matching location wins", func(t *testing.T) {
		tc := newFakeToolchain().install("A", "/loc2/A", "")
		contrib, attempts, err := ResolvePackage(ctx, pkg("A", true), env.Record{}, tc, Options{GOOS: "linux"})
		require.NoError(t, err)

		require.Len(t, attempts, 2)
		assert.False(t, attempts[0].OK())
		assert.True(t, attempts[1].OK())
		assert.Equal(t, []string{"/loc2/A/include"}, contrib.Include)
		assert.Equal(t, []string{"/loc2/A/lib"}, contrib.Lib)
		assert.Equal(t, []string{"A"}, contrib.Libs)
	})

	t.Run("required exhaustion", func(t *testing.T) {
		tc := newFakeToolchain()
		_, attempts, err := ResolvePackage(ctx, pkg("A", true), env.Record{}, tc, Options{})
		var nf *PackageNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "A", nf.Package)
		assert.Len(t, nf.Attempts, 2)
		assert.Len(t, attempts, 2)
	})

	t.Run("optional exhaustion", func(t *testing.T) {
		_, _, err := ResolvePackage(ctx, pkg("B", false), env.Record{}, newFakeToolchain(), Options{})
		assert.ErrorIs(t, err, ErrOptionalUnresolved)
	})

	t.Run("contribution excludes base entries", func(t *testing.T) {
		tc := newFakeToolchain().install("A", "/loc1/A", "")
		base := env.Record{Include: []string{"/loc1/A/include"}}
		contrib, _, err := ResolvePackage(ctx, pkg("A", true), base, tc, Options{})
		require.NoError(t, err)
		assert.Empty(t, contrib.Include)
		assert.Equal(t, []string{"A"}, contrib.Libs)
	})

	t.Run("variant flags are contributed", func(t *testing.T) {
		p := pkg("glut", true)
		p.Variants = []Variant{
			{Name: "framework", Frameworks: []string{"GLUT"}, Libraries: []string{}},
			{Name: "posix", Libraries: []string{"glut"}},
		}
		tc := newFakeToolchain().install("glut", "/loc1/glut", "posix")
		contrib, attempts, err := ResolvePackage(ctx, p, env.Record{}, tc, Options{})
		require.NoError(t, err)
		assert.Len(t, attempts, 2)
		assert.Empty(t, contrib.Frameworks, "losing variant's flags must not leak")
		assert.Equal(t, []string{"glut"}, contrib.Libs)
	})

	t.Run("canceled context stops the search", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err := ResolvePackage(cctx, pkg("A", true), env.Record{}, newFakeToolchain(), Options{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestResolvePackageParallelIsDeterministic(t *testing.T) {
	roots := []string{"/r0", "/r1", "/r2", "/r3", "/r4", "/r5", "/r6"}
	p := &Package{
		Name:      "hdf5",
		Required:  true,
		Headers:   []string{"hdf5.h"},
		Libraries: []string{"hdf5"},
		Locations: location.FromRoots(roots, flat),
	}
	tc := newFakeToolchain().install("hdf5", "/r3", "").install("hdf5", "/r5", "")

	seq, seqAttempts, err := ResolvePackage(context.Background(), p, env.Record{}, tc, Options{})
	require.NoError(t, err)

	for _, parallel := range []int{2, 3, 8} {
		par, attempts, err := ResolvePackage(context.Background(), p, env.Record{}, tc, Options{Parallel: parallel})
		require.NoError(t, err)
		assert.True(t, seq.Equal(par), "parallel=%d", parallel)
		assert.Equal(t, len(seqAttempts), len(attempts), "parallel=%d", parallel)
		assert.Equal(t, "/r3", attempts[len(attempts)-1].Candidate.Root)
	}
}

// brokenProber fails every request at broken with an error that is neither
// a probe failure nor an execution error.
type brokenProber struct {
	*fakeToolchain
	broken string
}

func (b brokenProber) Probe(ctx context.Context, req probe.Request) (probe.Result, error) {
	if req.Root == b.broken {
		return probe.Result{}, errors.New("permission denied")
	}
	return b.fakeToolchain.Probe(ctx, req)
}

func TestResolvePackageWarnsOnUnexpectedProbeErrors(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.New("warn", "text", &buf))

	prober := brokenProber{fakeToolchain: newFakeToolchain(), broken: "/loc1/A"}
	_, attempts, err := ResolvePackage(ctx, pkg("A", false), env.Record{}, prober, Options{})
	assert.ErrorIs(t, err, ErrOptionalUnresolved)
	require.Len(t, attempts, 2, "the search continues past the error")

	logs := buf.String()
	assert.Contains(t, logs, "Probe error.")
	assert.Contains(t, logs, "/loc1/A")
	assert.NotContains(t, logs, "/loc2/A", "ordinary rejections stay at debug level")
}

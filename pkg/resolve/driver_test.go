package resolve

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/buildenv/pkg/env"
	"github.com/arc-language/buildenv/pkg/logsink"
	"github.com/arc-language/buildenv/pkg/probe"
	"github.com/arc-language/buildenv/pkg/tier"
)

func run(t *testing.T, tc *fakeToolchain, pkgs ...*Package) (*Report, *logsink.Sink, error) {
	t.Helper()
	sink := logsink.New(nil)
	d := NewDriver(pkgs, probe.Recorded(tc, sink), DriverOptions{Options: Options{GOOS: "linux"}, Sink: sink})
	rep, err := d.Run(context.Background())
	require.NotNil(t, rep)
	return rep, sink, err
}

func TestDriverScenarios(t *testing.T) {
	t.Run("dependent chain completes", func(t *testing.T) {
		tc := newFakeToolchain().install("A", "/loc1/A", "").install("B", "/loc1/B", "")
		rep, _, err := run(t, tc, pkg("A", true), pkg("B", true, "A"))
		require.NoError(t, err)

		assert.Equal(t, Completed, rep.Status)
		assert.Equal(t, []tier.Tier{{"A"}, {"B"}}, rep.Tiers)
		assert.Equal(t, []string{"A", "B"}, rep.Config.Libs)
		assert.Equal(t, []string{"/loc1/A/include", "/loc1/B/include"}, rep.Config.Include)
		assert.Equal(t, Resolved, rep.Outcome("B").State)
		assert.Equal(t, 1, rep.Outcome("B").Tier)
		assert.Equal(t, []string{"B"}, rep.Outcome("B").Contribution.Libs)
		require.Len(t, rep.Contributions, 2)
	})

	t.Run("cycle aborts before probing", func(t *testing.T) {
		tc := newFakeToolchain()
		rep, _, err := run(t, tc, pkg("A", true, "B"), pkg("B", true, "A"))

		var cyc *tier.CyclicDependencyError
		require.ErrorAs(t, err, &cyc)
		assert.Equal(t, Aborted, rep.Status)
		assert.Empty(t, rep.Tiers)
		assert.Empty(t, tc.Calls())
		assert.True(t, rep.Config.IsEmpty())
	})

	t.Run("optional package with undeclared dependency", func(t *testing.T) {
		tc := newFakeToolchain().install("A", "/loc1/A", "")
		rep, _, err := run(t, tc, pkg("A", true), pkg("B", false, "C"))
		require.NoError(t, err)

		assert.Equal(t, Completed, rep.Status)
		assert.Equal(t, Resolved, rep.Outcome("A").State)
		b := rep.Outcome("B")
		assert.Equal(t, Unresolved, b.State)
		assert.ErrorIs(t, b.Err, ErrOptionalUnresolved)
		var unknown *tier.UnknownDependencyError
		assert.ErrorAs(t, b.Err, &unknown)
		assert.Equal(t, []tier.Tier{{"A"}}, rep.Tiers)
	})

	t.Run("second location wins and log records both attempts", func(t *testing.T) {
		tc := newFakeToolchain().install("A", "/loc2/A", "")
		rep, sink, err := run(t, tc, pkg("A", true))
		require.NoError(t, err)

		assert.Equal(t, []string{"/loc2/A/include"}, rep.Config.Include)
		lines := sink.Lines()
		require.GreaterOrEqual(t, len(lines), 3)
		assert.Contains(t, lines[0], "/loc1/A")
		assert.Contains(t, lines[0], "FAILED")
		assert.Contains(t, lines[1], "/loc2/A")
		assert.Contains(t, lines[1], "ok")
		assert.Contains(t, lines[2], "package A: accepted /loc2/A")
	})

	t.Run("required package absent aborts", func(t *testing.T) {
		tc := newFakeToolchain().install("Z", "/loc1/Z", "")
		rep, _, err := run(t, tc, pkg("Z", true), pkg("A", true, "Z"), pkg("B", true, "A"))

		var nf *PackageNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "A", nf.Package)
		assert.Len(t, nf.Attempts, 2)

		assert.Equal(t, Aborted, rep.Status)
		assert.Equal(t, "A", rep.Failed)
		assert.True(t, rep.Config.IsEmpty(), "no partial configuration on abort")
		assert.Equal(t, Failed, rep.Outcome("A").State)
		assert.True(t, rep.Outcome("A").Contribution.IsEmpty())
		assert.Equal(t, Pending, rep.Outcome("B").State, "later tiers are never reached")
		for _, call := range tc.Calls() {
			assert.False(t, strings.HasPrefix(call, "B@"), "B must not be probed")
		}
	})
}

func TestDriverOptionalAbsenceLeavesConfigUnchanged(t *testing.T) {
	tc := newFakeToolchain().install("A", "/loc1/A", "").install("C", "/loc2/C", "")

	without, _, err := run(t, tc, pkg("A", true), pkg("C", true, "A"))
	require.NoError(t, err)

	with, _, err := run(t, tc, pkg("A", true), pkg("opt", false, "A"), pkg("C", true, "A"))
	require.NoError(t, err)

	assert.Equal(t, Completed, with.Status)
	assert.Equal(t, Unresolved, with.Outcome("opt").State)
	assert.True(t, without.Config.Equal(with.Config))
}

func TestDriverUnresolvedDependencyCascade(t *testing.T) {
	tc := newFakeToolchain().install("D", "/loc1/D", "")

	t.Run("optional dependent is skipped", func(t *testing.T) {
		rep, _, err := run(t, tc, pkg("opt", false), pkg("D", false, "opt"))
		require.NoError(t, err)
		assert.Equal(t, Unresolved, rep.Outcome("D").State)
		assert.NotContains(t, tc.Calls(), "D@/loc1/D[default]")
	})

	t.Run("required dependent fails", func(t *testing.T) {
		rep, _, err := run(t, tc, pkg("opt", false), pkg("D", true, "opt"))
		var nf *PackageNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "D", nf.Package)
		assert.Equal(t, Aborted, rep.Status)
		assert.Equal(t, Failed, rep.Outcome("D").State)
	})

	t.Run("required dependent of pruned optional fails before probing", func(t *testing.T) {
		fresh := newFakeToolchain()
		rep, _, err := run(t, fresh, pkg("opt", false, "ghost"), pkg("D", true, "opt"))
		var nf *PackageNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "D", nf.Package)
		assert.Contains(t, nf.Cause.Error(), `dependency "opt" unresolved`)
		assert.Equal(t, "D", rep.Failed)
		assert.Equal(t, Failed, rep.Outcome("D").State)
		assert.Empty(t, fresh.Calls())
	})

	t.Run("required package with undeclared dependency", func(t *testing.T) {
		_, _, err := run(t, newFakeToolchain(), pkg("A", true, "ghost"))
		var unknown *tier.UnknownDependencyError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "ghost", unknown.Dependency)
	})
}

func TestDriverCycleAmongOptionalPackages(t *testing.T) {
	tc := newFakeToolchain()
	rep, _, err := run(t, tc, pkg("A", false, "B", "ghost"), pkg("B", false, "A"))

	var cyc *tier.CyclicDependencyError
	require.ErrorAs(t, err, &cyc)
	assert.Equal(t, []string{"A", "B"}, cyc.Remaining)
	assert.Equal(t, Aborted, rep.Status)
	assert.Equal(t, Pending, rep.Outcome("A").State)
	assert.Empty(t, tc.Calls())
}

func TestDriverDeterministicWinner(t *testing.T) {
	tc := newFakeToolchain().install("A", "/loc1/A", "").install("A", "/loc2/A", "")

	first, _, err := run(t, tc, pkg("A", true))
	require.NoError(t, err)
	second, _, err := run(t, tc, pkg("A", true))
	require.NoError(t, err)

	assert.Equal(t, first.Config, second.Config)
	assert.Equal(t, []string{"/loc1/A/include"}, first.Config.Include)
}

func TestDriverDuplicatePackage(t *testing.T) {
	rep, _, err := run(t, newFakeToolchain(), pkg("A", true), pkg("A", false))
	var dup *tier.DuplicatePackageError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, Aborted, rep.Status)
}

func TestDriverBaseConfiguration(t *testing.T) {
	tc := newFakeToolchain().install("A", "/loc1/A", "")
	sink := logsink.New(nil)
	d := NewDriver([]*Package{pkg("A", true)}, tc, DriverOptions{
		Base: env.Record{CFlags: []string{"-O2"}},
		Sink: sink,
	})

	rep, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"-O2"}, rep.Config.CFlags)
	assert.Empty(t, rep.Outcome("A").Contribution.CFlags)
}

func TestDriverCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tc := newFakeToolchain().install("A", "/loc1/A", "")
	rep, err := NewDriver([]*Package{pkg("A", true)}, tc, DriverOptions{}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Aborted, rep.Status)
	assert.True(t, rep.Config.IsEmpty())
}

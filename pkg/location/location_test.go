package location

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/buildenv/pkg/env"
)

var flat = env.Layout{Includes: []string{"include"}, Libraries: []string{"lib"}}

func roots(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Root)
	}
	return out
}

func TestFromRoots(t *testing.T) {
	seq := FromRoots([]string{"/usr", "", "/opt/local"}, flat)

	got := Collect(seq)
	require.Len(t, got, 2)
	assert.Equal(t, Candidate{Root: "/usr", Include: []string{"/usr/include"}, Lib: []string{"/usr/lib"}}, got[0])

	assert.Equal(t, got, Collect(seq), "sequences must be restartable")
}

func TestExtend(t *testing.T) {
	base := FromRoots([]string{"/usr", "/opt"}, flat)

	got := Collect(Extend(base, "GL"))
	require.Len(t, got, 4)
	assert.Equal(t, []string{"/usr", "/usr", "/opt", "/opt"}, roots(got))
	assert.Equal(t, []string{"/usr/include"}, got[0].Include, "unextended candidate comes first")
	assert.Equal(t, []string{"/usr/include", "/usr/include/GL"}, got[1].Include)
	assert.Equal(t, got[0].Lib, got[1].Lib)
}

func TestExtendAllComposes(t *testing.T) {
	got := Collect(ExtendAll(FromRoots([]string{"/usr"}, flat), "GL", "glut"))
	require.Len(t, got, 3)
	assert.Equal(t, []string{"/usr/include"}, got[0].Include)
	assert.Equal(t, []string{"/usr/include", "/usr/include/GL"}, got[1].Include)
	assert.Equal(t, []string{"/usr/include", "/usr/include/glut"}, got[2].Include)

	chained := Collect(Extend(Extend(FromRoots([]string{"/usr"}, flat), "GL"), "glut"))
	require.Len(t, chained, 4)
	assert.Equal(t, []string{"/usr/include"}, chained[0].Include)
	assert.Equal(t, []string{"/usr/include", "/usr/include/GL", "/usr/include/glut", "/usr/include/GL/glut"}, chained[3].Include)
}

func TestEarlyStop(t *testing.T) {
	seq := ExtendAll(Concat(FromRoots([]string{"/a", "/b"}, flat), FromRoots([]string{"/c"}, flat)), "x")
	var seen []string
	for c := range seq {
		seen = append(seen, c.Root)
		if len(seen) == 3 {
			break
		}
	}
	assert.Equal(t, []string{"/a", "/a", "/b"}, seen)
}

func TestDedupe(t *testing.T) {
	seq := Dedupe(Concat(
		FromRoots([]string{"/usr", "/usr/local"}, flat),
		FromRoots([]string{"/usr"}, flat),
	))
	assert.Equal(t, []string{"/usr", "/usr/local"}, roots(Collect(seq)))
}

func TestEnvRoots(t *testing.T) {
	vars := map[string]string{"HDF5_DIR": "/opt/hdf5/", "EMPTY": ""}
	lookup := func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}

	got := Collect(EnvRoots(lookup, []string{"EMPTY", "UNSET", "HDF5_DIR"}, flat))
	assert.Equal(t, []string{"/opt/hdf5"}, roots(got))

	vars["UNSET"] = "/late"
	got = Collect(EnvRoots(lookup, []string{"EMPTY", "UNSET", "HDF5_DIR"}, flat))
	assert.Equal(t, []string{"/late", "/opt/hdf5"}, roots(got))
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"opt/openmpi-4.1", "opt/mpich-4.0", "opt/vendor/openmpi-5.0"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, d), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "opt", "openmpi-notes"), nil, 0644))

	got := Collect(Glob([]string{filepath.Join(dir, "opt", "**", "openmpi*")}, flat))
	assert.Equal(t, []string{
		filepath.Join(dir, "opt", "openmpi-4.1"),
		filepath.Join(dir, "opt", "vendor", "openmpi-5.0"),
	}, roots(got))
}

func TestNixStore(t *testing.T) {
	store := t.TempDir()
	for _, name := range []string{
		"0c0s3kba3ay4rhmkx5bjjbn39p7jbpdx-zlib-1.3.1",
		"1b8m4rbq0yfg2q1bqc2xpncmyrd3z0ns-zlib-1.3.1-dev",
		"2c7sbdlr1ljn0n4dplr6nl6p4fxfzx9w-zlibrary-2.0",
		"not-a-store-path",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(store, name), 0755))
	}

	got := roots(Collect(NixStore(store, []string{"zlib"}, flat)))
	assert.Equal(t, []string{
		filepath.Join(store, "1b8m4rbq0yfg2q1bqc2xpncmyrd3z0ns-zlib-1.3.1-dev"),
		filepath.Join(store, "0c0s3kba3ay4rhmkx5bjjbn39p7jbpdx-zlib-1.3.1"),
	}, got)

	assert.Empty(t, Collect(NixStore(filepath.Join(store, "missing"), []string{"zlib"}, flat)))
}

func TestMatchesStoreName(t *testing.T) {
	assert.True(t, matchesStoreName("hdf5", []string{"hdf5"}))
	assert.True(t, matchesStoreName("hdf5-1.14.3", []string{"hdf5"}))
	assert.True(t, matchesStoreName("hdf5-dev", []string{"hdf5"}))
	assert.False(t, matchesStoreName("hdf5-mpi-1.14", []string{"hdf5"}))
	assert.False(t, matchesStoreName("zlib-ng-2.1", []string{"zlib"}))
}

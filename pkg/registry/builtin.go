// pkg/registry/builtin.go
package registry

// builtins is the declaration set shipped with the tool. Synced registries
// layer on top of it through Merge.
var builtins = []Declaration{
	{
		Name:     "zlib",
		Required: true,
		Headers:  []string{"zlib.h"},
		Libs:     []string{"z"},
		EnvVars:  []string{"ZLIB_ROOT"},
		Backends: map[string]string{"dpkg": "zlib1g-dev", "brew": "zlib", "nix": "zlib"},
	},
	{
		Name:       "hdf5",
		Deps:       []string{"zlib"},
		Headers:    []string{"hdf5.h"},
		Libs:       []string{"hdf5", "hdf5_serial"},
		EnvVars:    []string{"HDF5_DIR", "HDF5_ROOT"},
		Extensions: []string{"hdf5/serial"},
		Backends:   map[string]string{"dpkg": "libhdf5-dev", "brew": "hdf5", "nix": "hdf5"},
	},
	{
		Name:       "blas",
		Headers:    []string{"cblas.h"},
		Libs:       []string{"openblas", "cblas", "blas"},
		EnvVars:    []string{"OPENBLAS_HOME"},
		Extensions: []string{"openblas"},
		Backends:   map[string]string{"dpkg": "libopenblas-dev, libblas-dev", "brew": "openblas"},
		Variants: []VariantDecl{
			{Name: "accelerate", Platforms: []string{"darwin"}, Frameworks: []string{"Accelerate"}, HeaderOnly: true},
			{Name: "posix"},
		},
	},
	{
		Name:       "lapack",
		Deps:       []string{"blas"},
		Headers:    []string{"lapacke.h"},
		Libs:       []string{"lapacke", "lapack"},
		Extensions: []string{"lapacke"},
		Backends:   map[string]string{"dpkg": "liblapacke-dev", "brew": "lapack"},
	},
	{
		Name:       "mpi",
		Headers:    []string{"mpi.h"},
		Libs:       []string{"mpi", "mpich", "msmpi"},
		EnvVars:    []string{"MPI_HOME", "MPI_ROOT"},
		RootGlobs:  []string{"/usr/lib/*/openmpi", "/usr/lib64/openmpi", "/opt/**/openmpi*"},
		Extensions: []string{"openmpi", "mpich"},
		Backends:   map[string]string{"dpkg": "libopenmpi-dev, libmpich-dev", "brew": "open-mpi, mpich"},
	},
	{
		Name:       "gl",
		Headers:    []string{"GL/gl.h"},
		Libs:       []string{"GL", "opengl32"},
		Extensions: []string{"GL"},
		Backends:   map[string]string{"dpkg": "libgl-dev, mesa-common-dev"},
		Variants: []VariantDecl{
			{Name: "framework", Platforms: []string{"darwin"}, Frameworks: []string{"OpenGL"}, HeaderOnly: true, Defines: []string{"GL_SILENCE_DEPRECATION"}},
			{Name: "posix"},
		},
	},
	{
		Name:       "glut",
		Deps:       []string{"gl"},
		Headers:    []string{"GL/glut.h"},
		Libs:       []string{"glut", "freeglut"},
		Extensions: []string{"GL", "glut"},
		Backends:   map[string]string{"dpkg": "freeglut3-dev", "brew": "freeglut"},
		Variants: []VariantDecl{
			{Name: "framework", Platforms: []string{"darwin"}, Frameworks: []string{"GLUT"}, HeaderOnly: true},
			{Name: "posix"},
		},
	},
	{
		Name:       "python3",
		Headers:    []string{"Python.h"},
		Roots:      []string{"${PYTHONHOME}", "/usr", "/usr/local"},
		Extensions: []string{"python3.13", "python3.12", "python3.11", "python3.10"},
		Backends:   map[string]string{"dpkg": "libpython3-dev", "brew": "python@3.13, python@3.12"},
	},
}

// Builtin returns a registry of the shipped declarations.
func Builtin() *Registry {
	r, err := New(builtins...)
	if err != nil {
		panic(err)
	}
	return r
}

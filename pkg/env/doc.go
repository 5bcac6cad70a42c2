// pkg/env/doc.go
package env

/*
Package env holds the build configuration that dependency resolution
accumulates, and the install-layout knowledge used to locate headers and
libraries on disk.

It handles:
  - The Record type: ordered, duplicate-free sets of include dirs, lib dirs,
    library names, defines, compiler/linker flags and frameworks
  - The Accumulator: the one shared Record of a resolution run, mutated only
    through Commit
  - Platform install layouts and conventional install roots
  - Finding headers and libraries within a set of search directories
  - Rendering compiler and linker flags
  - Saving resolved configurations as named profiles

Basic Usage:

    acc := env.NewAccumulator(env.Record{})

    trial := acc.Snapshot()
    trial.AddInclude("/usr/include/hdf5/serial")
    trial.AddLibs("hdf5")

    acc.Commit("hdf5", trial)

    flags := acc.Snapshot().Flags()
    fmt.Println(strings.Join(flags.All(), " "))
    // -I/usr/include/hdf5/serial -lhdf5

Platform Layouts:

Install roots differ per platform in where they keep libraries. Debian
derivatives use multiarch dirs (lib/x86_64-linux-gnu), Fedora and openSUSE
use lib64, Homebrew and Nix use a flat lib/. LayoutFor returns the relative
directories to search under a root for a given GOOS/GOARCH.
*/

// pkg/env/constants.go
package env

import (
	"path/filepath"
)

// LayoutFor returns the directories searched below an install root on the
// given platform. These are RELATIVE paths, joined onto each root.
func LayoutFor(goos, goarch string) Layout {
	switch goos {
	case "darwin":
		return getDarwinLayout()
	case "windows":
		return getWindowsLayout()
	case "linux":
		return getLinuxLayout(goarch)
	default:
		return getDefaultLayout()
	}
}

// Linux roots mix Debian multiarch dirs with the lib64 convention used by
// Fedora and openSUSE; both are searched, multiarch first.
func getLinuxLayout(goarch string) Layout {
	triplet := multiarchTriplet(goarch)

	libs := []string{}
	if triplet != "" {
		libs = append(libs, filepath.Join("lib", triplet))
	}
	libs = append(libs, "lib64", "lib")

	pkgconfig := []string{}
	if triplet != "" {
		pkgconfig = append(pkgconfig, filepath.Join("lib", triplet, "pkgconfig"))
	}
	pkgconfig = append(pkgconfig,
		filepath.Join("lib64", "pkgconfig"),
		filepath.Join("lib", "pkgconfig"),
		filepath.Join("share", "pkgconfig"),
	)

	return Layout{
		Libraries: libs,
		Includes:  []string{"include"},
		PkgConfig: pkgconfig,
	}
}

// Homebrew, MacPorts and framework installs use a flat structure
func getDarwinLayout() Layout {
	return Layout{
		Libraries: []string{"lib"},
		Includes:  []string{"include"},
		PkgConfig: []string{filepath.Join("lib", "pkgconfig")},
	}
}

// Windows installs are inconsistent, use common patterns
func getWindowsLayout() Layout {
	return Layout{
		Libraries: []string{
			"lib",
			filepath.Join("tools", "lib"),
			"bin", // import libs and DLLs often in bin/
		},
		Includes: []string{
			"include",
			filepath.Join("tools", "include"),
		},
		PkgConfig: []string{filepath.Join("lib", "pkgconfig")},
	}
}

// Default layout for unknown platforms (FHS-like)
func getDefaultLayout() Layout {
	return Layout{
		Libraries: []string{"lib"},
		Includes:  []string{"include"},
		PkgConfig: []string{filepath.Join("lib", "pkgconfig")},
	}
}

func multiarchTriplet(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64-linux-gnu"
	case "arm64":
		return "aarch64-linux-gnu"
	case "386":
		return "i386-linux-gnu"
	case "arm":
		return "arm-linux-gnueabihf"
	case "ppc64le":
		return "powerpc64le-linux-gnu"
	case "riscv64":
		return "riscv64-linux-gnu"
	default:
		return ""
	}
}

// DefaultRoots returns the platform-conventional install prefixes, most
// specific first. home may be empty.
func DefaultRoots(goos, home string) []string {
	var roots []string
	switch goos {
	case "darwin":
		roots = []string{"/opt/homebrew", "/usr/local", "/opt/local", "/usr"}
	case "windows":
		roots = []string{`C:\Program Files`, `C:\ProgramData\chocolatey`, `C:\msys64\mingw64`}
	default:
		roots = []string{"/usr", "/usr/local", "/opt/local"}
	}
	if home != "" && goos != "windows" {
		roots = append(roots, filepath.Join(home, ".local"))
	}
	return roots
}

// LibraryExtensions returns file extensions to look for, shared first
func LibraryExtensions(goos string) []string {
	switch goos {
	case "darwin":
		return []string{".dylib", ".tbd", ".a"}
	case "windows":
		return []string{".dll", ".lib", ".a"}
	default: // linux, etc.
		return []string{".so", ".a"}
	}
}

// isStaticExtension reports whether ext names a static archive
func isStaticExtension(ext string) bool {
	return ext == ".a" || ext == ".lib"
}

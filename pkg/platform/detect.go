// pkg/platform/detect.go
package platform

import (
	"fmt"
	"os"
	"runtime"

	"github.com/arc-language/buildenv/pkg/dpkg"
	"github.com/arc-language/buildenv/pkg/registry"
)

// Platform represents the detected system platform
type Platform struct {
	OS        string   // linux, darwin, windows
	Arch      string   // amd64, arm64, 386, arm
	Home      string   // user home, may be empty
	Available []string // C compilers found in PATH
	Preferred string   // compiler used when none is configured
}

// candidateCompilers lists the compilers Detect looks for, per OS, in
// order of preference. $CC is always considered first.
func candidateCompilers(goos string) []string {
	switch goos {
	case "darwin", "freebsd", "openbsd":
		return []string{"cc", "clang", "gcc"}
	case "windows":
		return []string{"gcc", "clang", "cc"}
	default:
		return []string{"cc", "gcc", "clang"}
	}
}

// Detect detects the current platform and available C compilers
func Detect() (*Platform, error) {
	return detect(runtime.GOOS, runtime.GOARCH, os.Getenv("CC"), commandExists)
}

func detect(goos, goarch, envCC string, exists func(string) bool) (*Platform, error) {
	p := &Platform{
		OS:        goos,
		Arch:      goarch,
		Available: []string{},
	}
	if home, err := os.UserHomeDir(); err == nil {
		p.Home = home
	}

	switch p.OS {
	case "linux", "darwin", "windows", "freebsd", "openbsd":
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", p.OS)
	}

	names := candidateCompilers(goos)
	if envCC != "" {
		names = append([]string{envCC}, names...)
	}
	for _, name := range names {
		if !contains(p.Available, name) && exists(name) {
			p.Available = append(p.Available, name)
		}
	}

	if len(p.Available) > 0 {
		p.Preferred = p.Available[0]
	}

	return p, nil
}

// Registry returns what location generation needs to know about p. On
// linux every declaration shares one dpkg database, so the status file is
// parsed at most once per call.
func (p *Platform) Registry(extraRoots []string) registry.Platform {
	rp := registry.Platform{
		GOOS:       p.OS,
		GOARCH:     p.Arch,
		Home:       p.Home,
		ExtraRoots: extraRoots,
	}
	if p.OS == "linux" {
		rp.Dpkg = dpkg.Open("", dpkg.ArchitectureFor(p.Arch))
	}
	return rp
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s (compilers: %v, preferred: %s)",
		p.OS, p.Arch, p.Available, p.Preferred)
}

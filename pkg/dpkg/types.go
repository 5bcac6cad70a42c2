// pkg/dpkg/types.go
package dpkg

import "sync"

// PackageInfo is one stanza of the dpkg status database
type PackageInfo struct {
	Package      string
	Architecture string
	Status       string
	Depends      []string // package names only, alternatives past the first dropped
	Provides     []string // virtual package names
}

// Installed reports whether dpkg considers the package fully installed.
func (p *PackageInfo) Installed() bool {
	return p.Status == statusInstalled
}

// Location is an install prefix holding a package's headers and libraries,
// derived from the files the package owns.
type Location struct {
	Root    string   // prefix before /include, e.g. /usr
	Include []string // dirs holding the requested headers
	Lib     []string // dirs holding the requested libraries
}

// Database reads the installed-package database below Dir.
// It is loaded once, on first use.
type Database struct {
	Dir  string
	Arch Architecture

	once      sync.Once
	packages  map[string][]*PackageInfo // several entries with Multi-Arch: same
	providers map[string][]*PackageInfo // virtual name -> providing packages
	err       error
}

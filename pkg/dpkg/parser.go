// pkg/dpkg/parser.go
package dpkg

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseStatus parses a dpkg status file
func ParseStatus(r io.Reader) ([]*PackageInfo, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // Handle large descriptions

	var packages []*PackageInfo
	var current *PackageInfo

	for scanner.Scan() {
		line := scanner.Text()

		// Empty line indicates end of package stanza
		if line == "" {
			if current != nil {
				packages = append(packages, current)
				current = nil
			}
			continue
		}

		// Continuation lines belong to descriptions and conffiles
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}

		// Parse field: value
		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		field = strings.TrimSpace(field)
		value = strings.TrimSpace(value)

		// Start new package if we see Package field
		if field == "Package" {
			if current != nil {
				packages = append(packages, current)
			}
			current = &PackageInfo{
				Package: value,
			}
			continue
		}

		if current == nil {
			continue
		}

		switch field {
		case "Architecture":
			current.Architecture = value
		case "Status":
			current.Status = value
		case "Depends":
			current.Depends = parsePackageList(value)
		case "Provides":
			current.Provides = parsePackageList(value)
		}
	}

	// Don't forget the last package
	if current != nil {
		packages = append(packages, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning status file: %w", err)
	}

	return packages, nil
}

// parsePackageList parses a comma-separated package dependency list
func parsePackageList(s string) []string {
	var result []string
	parts := strings.Split(s, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		// Remove version constraints like (>= 1.0)
		if idx := strings.Index(part, "("); idx != -1 {
			part = strings.TrimSpace(part[:idx])
		}
		// Remove alternative dependencies (|)
		if idx := strings.Index(part, "|"); idx != -1 {
			part = strings.TrimSpace(part[:idx])
		}
		// Remove architecture qualifiers like :any
		if idx := strings.Index(part, ":"); idx != -1 {
			part = part[:idx]
		}
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// ParseFileList parses an info/<package>.list file: one absolute path per line.
func ParseFileList(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var files []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "/." {
			continue
		}
		files = append(files, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning file list: %w", err)
	}
	return files, nil
}

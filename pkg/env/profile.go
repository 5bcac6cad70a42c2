// pkg/env/profile.go
package env

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidProfileName is returned for names that would leave the profile
// directory.
var ErrInvalidProfileName = errors.New("invalid profile name")

// Profile is a saved, fully resolved build configuration
type Profile struct {
	Name        string            `yaml:"name"`
	Platform    string            `yaml:"platform"`
	Packages    map[string]Record `yaml:"packages"` // name -> contribution
	Config      Record            `yaml:"config"`
	Fingerprint string            `yaml:"fingerprint"`
	CreatedAt   string            `yaml:"created_at"`
}

// ProfileStore keeps named profiles under a root directory
type ProfileStore struct {
	rootDir string // ~/.cache/buildenv/profiles
}

// NewProfileStore creates a profile store rooted at rootDir.
func NewProfileStore(rootDir string) (*ProfileStore, error) {
	if rootDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locating home directory: %w", err)
		}
		rootDir = filepath.Join(home, ".cache", "buildenv", "profiles")
	}

	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("creating profile directory: %w", err)
	}

	return &ProfileStore{rootDir: rootDir}, nil
}

// NewProfile builds a profile from a final configuration and the
// per-package contributions that produced it.
func NewProfile(name, platform string, config Record, contributions []Contribution) *Profile {
	p := &Profile{
		Name:        name,
		Platform:    platform,
		Packages:    make(map[string]Record),
		Config:      config,
		Fingerprint: config.Fingerprint(),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	for _, c := range contributions {
		p.Packages[c.Package] = c.Record
	}
	return p
}

// Save writes the profile, replacing any profile with the same name
func (s *ProfileStore) Save(p *Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	path, err := s.path(p.Name)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

// Load loads a profile by name
func (s *ProfileStore) Load(name string) (*Profile, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile '%s' not found", name)
		}
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile '%s': %w", name, err)
	}
	return &p, nil
}

// List returns the names of all saved profiles, sorted
func (s *ProfileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		names = append(names, entry.Name()[:len(entry.Name())-len(".yaml")])
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes a profile
func (s *ProfileStore) Remove(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *ProfileStore) path(name string) (string, error) {
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfileName, name)
	}
	return filepath.Join(s.rootDir, name+".yaml"), nil
}

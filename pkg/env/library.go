// pkg/env/library.go
package env

import (
	"os"
	"path/filepath"
)

// FindLibrary searches dirs in order for a library by name.
// Returns the first match found, or nil.
func FindLibrary(dirs []string, name, goos string) *Library {
	extensions := LibraryExtensions(goos)

	for _, dir := range dirs {
		for _, ext := range extensions {
			for _, filename := range libraryFilenames(name, ext, goos) {
				// Try lib{name}{ext} pattern (e.g., libssl.so)
				fullPath := filepath.Join(dir, filename)
				if fileExists(fullPath) {
					return newLibrary(name, dir, fullPath, ext)
				}

				// Try versioned: lib{name}{ext}.* (e.g., libssl.so.3)
				matches, _ := filepath.Glob(filepath.Join(dir, filename+".*"))
				if len(matches) > 0 {
					return newLibrary(name, dir, matches[0], ext)
				}
			}
		}
	}

	return nil
}

// FindHeader returns the first dir in dirs that contains header. header may
// contain a relative directory part (e.g. "GL/glut.h").
func FindHeader(dirs []string, header string) (string, bool) {
	for _, dir := range dirs {
		if fileExists(filepath.Join(dir, filepath.FromSlash(header))) {
			return dir, true
		}
	}
	return "", false
}

// PkgConfigDirs returns the pkg-config directories of layout that exist
// below root.
func PkgConfigDirs(root string, layout Layout) []string {
	var dirs []string
	for _, rel := range layout.PkgConfig {
		dir := filepath.Join(root, rel)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func libraryFilenames(name, ext, goos string) []string {
	if goos == "windows" {
		// MSVC import libs drop the lib prefix, MinGW keeps it
		return []string{name + ext, "lib" + name + ext}
	}
	return []string{"lib" + name + ext}
}

func newLibrary(name, dir, path, ext string) *Library {
	return &Library{
		Name:     name,
		Dir:      dir,
		Path:     path,
		Type:     ext,
		IsStatic: isStaticExtension(ext),
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Package index keeps the declaration registry cache in step with a git
// repository holding deps/<name>/index.toml files.
package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/arc-language/buildenv/internal/ctxlog"
)

const (
	RepoURL    = "https://github.com/arc-language/buildenv-registry"
	RepoBranch = "main"
)

// DepsDir is where Sync places the registry below cacheDir.
func DepsDir(cacheDir string) string {
	return filepath.Join(cacheDir, "deps")
}

// Sync shallow-clones url at branch and replaces <cacheDir>/deps with the
// repository's deps/ tree. It returns the deps directory.
func Sync(ctx context.Context, url, branch, cacheDir string) (string, error) {
	if url == "" {
		url = RepoURL
	}
	if branch == "" {
		branch = RepoBranch
	}
	logger := ctxlog.FromContext(ctx)

	tempDir, err := os.MkdirTemp("", "buildenv-clone-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	logger.Info("Updating declaration registry", "url", url, "branch", branch)

	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return "", fmt.Errorf("git clone failed: %w", err)
	}

	dst := DepsDir(cacheDir)
	n, err := install(filepath.Join(tempDir, "deps"), dst)
	if err != nil {
		return "", err
	}
	logger.Info("Declaration registry updated", "dir", dst, "files", n)
	return dst, nil
}

// install copies src over dst. The copy is staged next to dst and swapped
// in only once complete, so a failed sync leaves the old registry usable.
func install(src, dst string) (int, error) {
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return 0, fmt.Errorf("repository has no deps/ directory")
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("creating cache dir: %w", err)
	}

	staging := dst + ".new"
	os.RemoveAll(staging)
	n, err := copyDir(src, staging)
	if err != nil {
		os.RemoveAll(staging)
		return 0, fmt.Errorf("copying deps: %w", err)
	}

	old := dst + ".old"
	os.RemoveAll(old)
	if err := os.Rename(dst, old); err != nil && !os.IsNotExist(err) {
		os.RemoveAll(staging)
		return 0, fmt.Errorf("replacing deps: %w", err)
	}
	if err := os.Rename(staging, dst); err != nil {
		os.Rename(old, dst)
		return 0, fmt.Errorf("replacing deps: %w", err)
	}
	os.RemoveAll(old)
	return n, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyDir(src, dst string) (int, error) {
	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return 0, err
	}

	n := 0
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			c, err := copyDir(srcPath, dstPath)
			if err != nil {
				return n, err
			}
			n += c
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return n, err
			}
			n++
		}
	}

	return n, nil
}

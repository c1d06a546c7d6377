package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/vk/libdecl/internal/ctxlog"
	"github.com/vk/libdecl/internal/fsutil"
)

// ErrPackageNotFound is returned by a PathFinder that cannot locate a package.
var ErrPackageNotFound = errors.New("package not found")

// PathFinder locates the directory of a package.
type PathFinder interface {
	Find(ctx context.Context, pkg string) (string, error)
}

// DirFinder searches its roots, in order, for a directory named after the
// package.
type DirFinder struct {
	Roots []string
}

// Find implements PathFinder.
func (f DirFinder) Find(ctx context.Context, pkg string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	for _, root := range f.Roots {
		dir, found, err := fsutil.FindDir(root, pkg)
		if err != nil {
			return "", fmt.Errorf("searching %s for package %q: %w", root, pkg, err)
		}
		if !found {
			logger.Debug("Package not under root.", "package", pkg, "root", root)
			continue
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", err
		}
		return abs, nil
	}
	return "", fmt.Errorf("package %q: %w", pkg, ErrPackageNotFound)
}

// StaticFinder maps package names to fixed paths.
type StaticFinder map[string]string

// Find implements PathFinder.
func (f StaticFinder) Find(_ context.Context, pkg string) (string, error) {
	if path, ok := f[pkg]; ok {
		return path, nil
	}
	return "", fmt.Errorf("package %q: %w", pkg, ErrPackageNotFound)
}

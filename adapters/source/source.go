// Package source provides file sources for analysis: local directory trees
// and, via the github subpackage, remote repositories.
package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"infra-review/internal/errors"
)

// FileSource lists and fetches repository files for analysis.
type FileSource interface {
	// ListPaths returns every file path in the source.
	ListPaths(ctx context.Context) ([]string, error)

	// TerraformFiles returns .tf and .tfvars files keyed by path.
	TerraformFiles(ctx context.Context) (map[string]string, error)

	// WorkflowFiles returns GitHub Actions workflow files keyed by file name.
	WorkflowFiles(ctx context.Context) (map[string]string, error)
}

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".terraform":   true,
	"node_modules": true,
}

// Local reads files from a directory tree on disk.
type Local struct {
	dir           string
	maxFileSizeKB int
}

// NewLocal creates a local source rooted at dir. Files larger than
// maxFileSizeKB are skipped; zero means no limit.
func NewLocal(dir string, maxFileSizeKB int) *Local {
	return &Local{dir: dir, maxFileSizeKB: maxFileSizeKB}
}

// ListPaths walks the tree and returns sorted slash-separated paths relative
// to the root.
func (l *Local) ListPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(l.dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.TypeSource, err, "failed to walk %s", l.dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// TerraformFiles returns the .tf and .tfvars files under the root.
func (l *Local) TerraformFiles(ctx context.Context) (map[string]string, error) {
	return l.readMatching(ctx, func(path string) bool {
		return strings.HasSuffix(path, ".tf") || strings.HasSuffix(path, ".tfvars")
	})
}

// WorkflowFiles returns the workflow files under .github/workflows, keyed by
// file name.
func (l *Local) WorkflowFiles(ctx context.Context) (map[string]string, error) {
	workflowsDir := filepath.Join(l.dir, ".github", "workflows")
	entries, err := os.ReadDir(workflowsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrapf(errors.TypeSource, err, "failed to read %s", workflowsDir)
	}

	workflows := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yml") && !strings.HasSuffix(name, ".yaml") {
			continue
		}
		full := filepath.Join(workflowsDir, name)
		if l.tooLarge(full) {
			continue
		}
		content, err := l.readFile(full)
		if err != nil {
			return nil, err
		}
		workflows[name] = content
	}
	return workflows, nil
}

// readMatching walks the tree and reads every file the filter accepts.
func (l *Local) readMatching(ctx context.Context, match func(string) bool) (map[string]string, error) {
	paths, err := l.ListPaths(ctx)
	if err != nil {
		return nil, err
	}

	files := map[string]string{}
	for _, rel := range paths {
		if !match(rel) {
			continue
		}
		full := filepath.Join(l.dir, filepath.FromSlash(rel))
		if l.tooLarge(full) {
			continue
		}
		content, err := l.readFile(full)
		if err != nil {
			return nil, err
		}
		files[rel] = content
	}
	return files, nil
}

func (l *Local) readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(errors.TypeSource, err, "failed to read %s", path)
	}
	return string(data), nil
}

func (l *Local) tooLarge(path string) bool {
	if l.maxFileSizeKB <= 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() > int64(l.maxFileSizeKB)*1024
}

var _ FileSource = (*Local)(nil)

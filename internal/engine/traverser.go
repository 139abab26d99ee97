package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dirigo/dirigent/internal/ctxlog"
	"github.com/dirigo/dirigent/internal/fsutil"
)

// ResolveWorkspacePath takes a path and returns a slice of all .hcl files
// found. If the path is a file, it returns a slice containing just that file.
// If the path is a directory, it recursively finds all .hcl files within it,
// sorted by path so declaration order is stable across runs.
func ResolveWorkspacePath(ctx context.Context, path string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving workspace path.", "path", path)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("workspace path not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}

	if info.IsDir() {
		logger.Debug("Path is a directory, scanning for HCL files.", "directory", path)
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		return files, nil
	}

	logger.Debug("Path is a single file.", "file", path)
	// If it's a file, ensure it has the .hcl extension.
	if filepath.Ext(path) != ".hcl" {
		return nil, fmt.Errorf("specified file is not an .hcl file: %s", path)
	}
	return []string{path}, nil
}

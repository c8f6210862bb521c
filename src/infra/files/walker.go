package files

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/contre95/tagmend/src/features/fixing"
)

// Walker enumerates every regular file under a root, recursively.
// It deliberately does not filter by extension: files whose container
// turns out to be unreadable still get an all-null report row instead of
// silently disappearing from the batch.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() fixing.FileLister {
	return &Walker{}
}

// ListFiles returns the paths of all regular files under root. Hidden
// files and directories are skipped.
func (w *Walker) ListFiles(ctx context.Context, root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return paths, nil
}

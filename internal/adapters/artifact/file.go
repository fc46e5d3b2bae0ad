package artifact

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"weightwise/internal/platform/logger"
)

// File reads an artifact from the filesystem
type File string

// Read returns the file bytes; a missing file logs the absolute path and what its directory holds
func (f File) Read(ctx context.Context) ([]byte, string, error) {
	path := string(f)
	if path == "" {
		path = DefaultPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := ctx.Err(); err != nil {
		return nil, abs, err
	}

	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		dir := filepath.Dir(abs)
		logger.C(ctx).Error().
			Str("path", abs).
			Str("dir", dir).
			Strs("dir_entries", listDir(dir)).
			Msg("artifact file missing")
		return nil, abs, ErrNotFound
	}
	if err != nil {
		return nil, abs, err
	}
	return data, abs, nil
}

func listDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// CollectOptions selects which files are formatted.
type CollectOptions struct {
	Extensions []string // with leading dot, compared case-insensitively
	Exclude    []string // directory or file base names skipped while walking
}

// CollectSourceFiles expands paths into a sorted, deduplicated list of
// source files. Explicit file arguments are kept when their extension
// matches, even if an exclude name would skip them during a walk.
func CollectSourceFiles(ctx context.Context, paths []string, opts CollectOptions) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if opts.matches(p) {
				addFile(p)
			}
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if path != p && opts.excluded(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if opts.matches(path) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func (o CollectOptions) matches(path string) bool {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = []string{".py"}
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && slices.Contains(exts, ext)
}

func (o CollectOptions) excluded(name string) bool {
	return slices.Contains(o.Exclude, name)
}

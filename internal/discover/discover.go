// Package discover lists the page files that make up a route tree.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vango-dev/filerouter/internal/errors"
)

// Finder lists view files under Root.
type Finder struct {
	// Root is the absolute pages directory.
	Root string

	// Extensions are matched at the end of the file name, with or without
	// the leading dot.
	Extensions []string

	// Ignore contains doublestar patterns matched against the slash-separated
	// path relative to Root.
	Ignore []string
}

// Pattern returns the glob used to select files, e.g. "**/*.{tsx,jsx}".
func (f *Finder) Pattern() string {
	exts := make([]string, 0, len(f.Extensions))
	for _, ext := range f.Extensions {
		ext = strings.TrimPrefix(ext, ".")
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	switch len(exts) {
	case 0:
		return ""
	case 1:
		return "**/*." + exts[0]
	default:
		return "**/*.{" + strings.Join(exts, ",") + "}"
	}
}

// Find returns the absolute paths of matching regular files, sorted by
// their relative path so repeated calls produce the same route order.
func (f *Finder) Find() ([]string, error) {
	info, err := os.Stat(f.Root)
	if err != nil {
		return nil, errors.New("E110").
			WithFile(f.Root).
			WithDetail(err.Error()).
			WithSuggestion(`Create the pages directory or point "root" at an existing one`).
			Wrap(err)
	}
	if !info.IsDir() {
		return nil, errors.New("E110").
			WithFile(f.Root).
			WithDetail("pages root is not a directory")
	}

	for _, p := range f.Ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.New("E110").
				WithDetail(fmt.Sprintf("invalid ignore pattern %q", p)).
				WithSuggestion("Fix the glob in \"ignore\"")
		}
	}

	pattern := f.Pattern()
	if pattern == "" {
		return nil, nil
	}

	var rels []string
	err = doublestar.GlobWalk(os.DirFS(f.Root), pattern, func(rel string, d fs.DirEntry) error {
		if !d.Type().IsRegular() {
			return nil
		}
		ignored, err := f.ignored(rel)
		if err != nil {
			return err
		}
		if !ignored {
			rels = append(rels, rel)
		}
		return nil
	}, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.New("E110").WithFile(f.Root).WithDetail(err.Error()).Wrap(err)
	}

	sort.Strings(rels)
	files := make([]string, len(rels))
	for i, rel := range rels {
		files[i] = filepath.Join(f.Root, filepath.FromSlash(rel))
	}
	return files, nil
}

// Matches reports whether path, absolute or relative to Root, would be
// returned by Find. It does not touch the file system.
func (f *Finder) Matches(path string) bool {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(f.Root, path)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(rel)

	pattern := f.Pattern()
	if pattern == "" {
		return false
	}
	ok, err := doublestar.Match(pattern, rel)
	if err != nil || !ok {
		return false
	}
	ignored, err := f.ignored(rel)
	return err == nil && !ignored
}

func (f *Finder) ignored(rel string) (bool, error) {
	for _, pattern := range f.Ignore {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("ignore pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

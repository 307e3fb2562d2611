package routepath

import (
	"errors"
	"path/filepath"
	"strings"
)

// Path normalization errors.
var (
	ErrEmptyRoot   = errors.New("root is empty")
	ErrOutsideRoot = errors.New("path is not under root")
)

// Normalize converts backslashes to forward slashes and strips every
// leading and trailing slash.
//
//	Normalize(`C:\app\pages\`) == "C:/app/pages"
//	Normalize("/abs/pages/index.tsx") == "abs/pages/index.tsx"
func Normalize(raw string) string {
	p := strings.ReplaceAll(raw, "\\", "/")
	p = strings.TrimLeft(p, "/")
	return strings.TrimRight(p, "/")
}

// Relative returns file relative to root in normalized form.
// Files that resolve outside root, or to root itself, are rejected with
// ErrOutsideRoot rather than producing a leading ".." segment.
func Relative(root, file string) (string, error) {
	if root == "" {
		return "", ErrEmptyRoot
	}

	rel, err := filepath.Rel(filepath.FromSlash(root), filepath.FromSlash(file))
	if err != nil {
		return "", ErrOutsideRoot
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}

	return Normalize(rel), nil
}

// StripExtension removes one trailing ".ext" matching any of exts.
// Extensions may be given with or without the leading dot. When more than
// one extension matches (e.g. "ts" and "d.ts"), the longest is removed.
func StripExtension(rel string, exts []string) string {
	longest := ""
	for _, ext := range exts {
		suffix := "." + strings.TrimPrefix(ext, ".")
		if suffix == "." {
			continue
		}
		if strings.HasSuffix(rel, suffix) && len(suffix) > len(longest) {
			longest = suffix
		}
	}
	return strings.TrimSuffix(rel, longest)
}

// Split splits a normalized relative path into its segments.
// An empty path has no segments.
func Split(rel string) []string {
	if rel == "" {
		return nil
	}
	return strings.Split(rel, "/")
}

package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("export default () => null\n"), 0o644))
	}
}

func TestFinderPattern(t *testing.T) {
	tests := []struct {
		exts []string
		want string
	}{
		{[]string{"tsx"}, "**/*.tsx"},
		{[]string{".tsx", ".jsx"}, "**/*.{tsx,jsx}"},
		{[]string{"", "."}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		f := &Finder{Extensions: tt.exts}
		if got := f.Pattern(); got != tt.want {
			t.Errorf("Pattern(%v) = %q, want %q", tt.exts, got, tt.want)
		}
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"index.tsx",
		"about.tsx",
		"blog/[slug].tsx",
		"blog/index.jsx",
		"blog/_draft.tsx",
		"styles.css",
		"components/Button.test.tsx",
	)

	f := &Finder{
		Root:       root,
		Extensions: []string{"tsx", "jsx"},
		Ignore:     []string{"**/_*", "**/*.test.*"},
	}
	files, err := f.Find()
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "about.tsx"),
		filepath.Join(root, "blog", "[slug].tsx"),
		filepath.Join(root, "blog", "index.jsx"),
		filepath.Join(root, "index.tsx"),
	}
	require.Equal(t, want, files)

	again, err := f.Find()
	require.NoError(t, err)
	require.Equal(t, files, again)
}

func TestFindMissingRoot(t *testing.T) {
	f := &Finder{Root: filepath.Join(t.TempDir(), "nope"), Extensions: []string{"tsx"}}
	_, err := f.Find()
	require.Error(t, err)
	require.Contains(t, err.Error(), "E110")
}

func TestFindRootIsFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "page.tsx")
	f := &Finder{Root: filepath.Join(dir, "page.tsx"), Extensions: []string{"tsx"}}
	_, err := f.Find()
	require.Error(t, err)
}

func TestFindBadIgnorePattern(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.tsx")
	f := &Finder{Root: root, Extensions: []string{"tsx"}, Ignore: []string{"[a-"}}
	_, err := f.Find()
	require.Error(t, err)
}

func TestMatches(t *testing.T) {
	root := t.TempDir()
	f := &Finder{
		Root:       root,
		Extensions: []string{"tsx"},
		Ignore:     []string{"**/_*"},
	}

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "about.tsx"), true},
		{filepath.Join(root, "blog", "[id].tsx"), true},
		{"blog/index.tsx", true},
		{filepath.Join(root, "styles.css"), false},
		{filepath.Join(root, "blog", "_draft.tsx"), false},
		{filepath.Join(filepath.Dir(root), "outside.tsx"), false},
	}
	for _, tt := range tests {
		if got := f.Matches(tt.path); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

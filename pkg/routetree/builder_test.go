package routetree

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/filerouter/pkg/routepath"
)

func mustBuild(t *testing.T, files []string, opts Options) []*RouteNode {
	t.Helper()
	tree, err := Build(files, opts)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return tree
}

func TestBuildBasicStructure(t *testing.T) {
	files := []string{
		"/absolute/path/src/pages/index.tsx",
		"/absolute/path/src/pages/about.tsx",
		"/absolute/path/src/pages/blog/index.tsx",
		"/absolute/path/src/pages/blog/[slug].tsx",
	}

	got := mustBuild(t, files, Options{
		Root:       "/absolute/path/src/pages",
		Extensions: []string{"tsx"},
	})

	want := []*RouteNode{
		{
			Path:       "/",
			ImportPath: "absolute/path/src/pages/index.tsx",
		},
		{
			Path:       "/about",
			ImportPath: "absolute/path/src/pages/about.tsx",
		},
		{
			Path:       "/blog",
			ImportPath: "absolute/path/src/pages/blog/index.tsx",
			Children: []*RouteNode{
				{
					Path:       "/:slug",
					ImportPath: "absolute/path/src/pages/blog/[slug].tsx",
				},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildConcreteScenario(t *testing.T) {
	files := []string{
		"/root/pages/index.tsx",
		"/root/pages/about.tsx",
		"/root/pages/blog/index.tsx",
		"/root/pages/blog/[slug].tsx",
	}

	got := mustBuild(t, files, Options{Root: "/root/pages"})

	want := []*RouteNode{
		{Path: "/", ImportPath: "root/pages/index.tsx"},
		{Path: "/about", ImportPath: "root/pages/about.tsx"},
		{
			Path:       "/blog",
			ImportPath: "root/pages/blog/index.tsx",
			Children: []*RouteNode{
				{Path: "/:slug", ImportPath: "root/pages/blog/[slug].tsx"},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildDeepNesting(t *testing.T) {
	files := []string{
		"/absolute/path/src/pages/docs/[docId]/project/[projectId].tsx",
	}

	got := mustBuild(t, files, Options{
		Root:       "/absolute/path/src/pages",
		Extensions: []string{"tsx"},
	})

	want := []*RouteNode{
		{
			Path: "/docs",
			Children: []*RouteNode{
				{
					Path: "/:docId",
					Children: []*RouteNode{
						{
							Path: "/project",
							Children: []*RouteNode{
								{
									Path:       "/:projectId",
									ImportPath: "absolute/path/src/pages/docs/[docId]/project/[projectId].tsx",
								},
							},
						},
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSegmentChain(t *testing.T) {
	got := mustBuild(t, []string{"/root/pages/a/[id]/b.tsx"}, Options{Root: "/root/pages"})

	var chain []string
	err := Walk(got, func(n *RouteNode, depth int) error {
		chain = append(chain, n.Path)
		if n.HasView() != n.IsLeaf() {
			t.Errorf("node %q: HasView() = %v, IsLeaf() = %v", n.Path, n.HasView(), n.IsLeaf())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	want := []string{"/a", "/:id", "/b"}
	if diff := cmp.Diff(want, chain); diff != "" {
		t.Errorf("path chain mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildIndexCollapsing(t *testing.T) {
	got := mustBuild(t, []string{"/app/pages/a/index.tsx"}, Options{Root: "/app/pages"})

	want := []*RouteNode{
		{Path: "/a", ImportPath: "app/pages/a/index.tsx"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRootIndex(t *testing.T) {
	got := mustBuild(t, []string{"/app/pages/index.jsx"}, Options{Root: "/app/pages"})

	want := []*RouteNode{
		{Path: "/", ImportPath: "app/pages/index.jsx"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildNestedIndexAfterChild(t *testing.T) {
	// The child arrives first; the index file must extend the same node.
	files := []string{
		"/app/pages/blog/[slug].tsx",
		"/app/pages/blog/index.tsx",
	}
	got := mustBuild(t, files, Options{Root: "/app/pages"})

	want := []*RouteNode{
		{
			Path:       "/blog",
			ImportPath: "app/pages/blog/index.tsx",
			Children: []*RouteNode{
				{Path: "/:slug", ImportPath: "app/pages/blog/[slug].tsx"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildKeepsInsertionOrder(t *testing.T) {
	files := []string{
		"/app/pages/zebra.tsx",
		"/app/pages/alpha/one.tsx",
		"/app/pages/middle.tsx",
		"/app/pages/alpha/two.tsx",
		"/app/pages/index.tsx",
	}
	got := mustBuild(t, files, Options{Root: "/app/pages"})

	var paths []string
	_ = Walk(got, func(n *RouteNode, depth int) error {
		paths = append(paths, n.Path)
		return nil
	})

	want := []string{"/zebra", "/alpha", "/one", "/two", "/middle", "/"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("pre-order paths mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSegments(t *testing.T) {
	tests := []struct {
		name string
		file string
		want []string
	}{
		{"multiple params in one segment", "/p/[from]-[to].tsx", []string{"/:from-:to"}},
		{"unbalanced bracket left as is", "/p/[id.tsx", []string{"/[id"}},
		{"directory named index is a segment", "/p/index/list.tsx", []string{"/index", "/list"}},
		{"index inside a name", "/p/reindex.tsx", []string{"/reindex"}},
		{"other extension kept", "/p/notes.md", []string{"/notes.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustBuild(t, []string{tt.file}, Options{Root: "/p"})
			var paths []string
			_ = Walk(got, func(n *RouteNode, depth int) error {
				paths = append(paths, n.Path)
				return nil
			})
			if diff := cmp.Diff(tt.want, paths); diff != "" {
				t.Errorf("paths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildNeverLeavesEmptyChildren(t *testing.T) {
	files := []string{
		"/p/index.tsx",
		"/p/a/b/c/d.tsx",
		"/p/a/index.tsx",
		"/p/a/b/index.tsx",
		"/p/x/[y]/index.tsx",
		"/p/x/[y]/z.tsx",
		"/p/solo.tsx",
	}
	got := mustBuild(t, files, Options{Root: "/p"})

	_ = Walk(got, func(n *RouteNode, depth int) error {
		if n.Children != nil && len(n.Children) == 0 {
			t.Errorf("node %q has an empty non-nil Children slice", n.Path)
		}
		return nil
	})
}

func TestBuildDeterministic(t *testing.T) {
	files := []string{
		"/p/index.tsx",
		"/p/blog/[slug].tsx",
		"/p/blog/index.tsx",
		"/p/docs/[docId]/project/[projectId].tsx",
	}
	opts := Options{Root: "/p"}
	first := mustBuild(t, files, opts)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := Build(files, opts)
			if err != nil {
				t.Errorf("Build() error: %v", err)
				return
			}
			if diff := cmp.Diff(first, again); diff != "" {
				t.Errorf("Build() not deterministic (-first +again):\n%s", diff)
			}
		}()
	}
	wg.Wait()
}

func TestBuildAmbiguousLeaf(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		route string
	}{
		{
			name:  "same name different extension",
			files: []string{"/p/about.tsx", "/p/about.jsx"},
			route: "/about",
		},
		{
			name:  "file and directory index",
			files: []string{"/p/blog.tsx", "/p/blog/index.tsx"},
			route: "/blog",
		},
		{
			name:  "two root indexes",
			files: []string{"/p/index.tsx", "/p/index.jsx"},
			route: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.files, Options{Root: "/p"})
			if !errors.Is(err, ErrAmbiguousLeaf) {
				t.Fatalf("Build() error = %v, want ErrAmbiguousLeaf", err)
			}
			var be *BuildError
			if !errors.As(err, &be) {
				t.Fatalf("Build() error is %T, want *BuildError", err)
			}
			if be.File != tt.files[1] || be.Other != tt.files[0] {
				t.Errorf("File, Other = %q, %q; want %q, %q", be.File, be.Other, tt.files[1], tt.files[0])
			}
			if be.Route != tt.route {
				t.Errorf("Route = %q, want %q", be.Route, tt.route)
			}
		})
	}
}

func TestBuildLastWins(t *testing.T) {
	files := []string{"/p/about.tsx", "/p/about.jsx"}
	got := mustBuild(t, files, Options{Root: "/p", Duplicates: LastWins})

	want := []*RouteNode{{Path: "/about", ImportPath: "p/about.jsx"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRepeatedFileIsIdempotent(t *testing.T) {
	files := []string{"/p/about.tsx", "/p/about.tsx"}
	got := mustBuild(t, files, Options{Root: "/p"})

	want := []*RouteNode{{Path: "/about", ImportPath: "p/about.tsx"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPathOutsideRoot(t *testing.T) {
	files := []string{"/p/index.tsx", "/elsewhere/about.tsx"}
	_, err := Build(files, Options{Root: "/p"})

	if !errors.Is(err, ErrPathOutsideRoot) {
		t.Fatalf("Build() error = %v, want ErrPathOutsideRoot", err)
	}
	if !errors.Is(err, routepath.ErrOutsideRoot) {
		t.Errorf("Build() error should wrap routepath.ErrOutsideRoot")
	}
	var be *BuildError
	if errors.As(err, &be) && be.File != "/elsewhere/about.tsx" {
		t.Errorf("File = %q, want %q", be.File, "/elsewhere/about.tsx")
	}
}

func TestBuildInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"empty root", Options{}},
		{"empty extension list", Options{Root: "/p", Extensions: []string{}}},
		{"blank extension", Options{Root: "/p", Extensions: []string{"tsx", ""}}},
		{"unknown duplicate policy", Options{Root: "/p", Duplicates: "first-wins"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The outside-root file proves options fail before files are read.
			_, err := Build([]string{"/elsewhere/a.tsx"}, tt.opts)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("Build() error = %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestBuildEmptyInput(t *testing.T) {
	got := mustBuild(t, nil, Options{Root: "/p"})
	if len(got) != 0 {
		t.Errorf("Build(nil) = %v, want empty tree", got)
	}
}

func TestBuildInvalidUTF8Path(t *testing.T) {
	bad := "/p/\xffbad.tsx"
	_, err := Build([]string{"/p/index.tsx", bad}, Options{Root: "/p"})

	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("Build() error = %v, want ErrInvalidPath", err)
	}
	var be *BuildError
	if errors.As(err, &be) && be.File != bad {
		t.Errorf("File = %q, want %q", be.File, bad)
	}
}

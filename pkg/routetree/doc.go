// Package routetree builds a nested route tree from a flat list of view files.
//
// # File Structure Convention
//
// Routes are derived from files under a root directory:
//
//	src/pages/
//	├── index.tsx            → /
//	├── about.tsx            → /about
//	├── blog/
//	│   ├── index.tsx        → /blog
//	│   └── [slug].tsx       → /blog/:slug
//	└── docs/
//	    └── [docId]/
//	        └── project/
//	            └── [projectId].tsx → /docs/:docId/project/:projectId
//
// A trailing index segment never creates a node of its own: it backs the
// directory node above it, or the top-level "/" node for a root-level index.
// Bracketed tokens become dynamic parameters ([slug] → :slug).
//
// # Ordering
//
// Siblings keep the order in which their first file appeared in the input.
// Nothing is sorted, so a fixed input order always yields the same tree.
//
// # Usage
//
//	tree, err := routetree.Build(files, routetree.Options{
//	    Root:       "/app/src/pages",
//	    Extensions: []string{"tsx", "jsx"},
//	})
//	if err != nil {
//	    return err
//	}
//	tree = routetree.AppendCatchAll(tree, "./src/pages/404.tsx")
package routetree

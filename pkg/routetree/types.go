package routetree

// Special route paths.
const (
	// IndexPath is the path of the top-level index node.
	IndexPath = "/"

	// CatchAllPath matches any URL not matched by a sibling.
	CatchAllPath = "*"

	// indexSegment is the file name that backs its parent directory.
	indexSegment = "index"
)

// DefaultExtensions are the view file extensions used when Options.Extensions is nil.
var DefaultExtensions = []string{"tsx", "jsx"}

// RouteNode is a node in the route tree.
type RouteNode struct {
	// Path is a single segment with a leading slash ("/about", "/:id"),
	// "/" for the index node, or "*" for the catch-all.
	Path string `json:"path" yaml:"path"`

	// ImportPath references the view module backing this node.
	// Empty for nodes that only group children.
	ImportPath string `json:"importPath,omitempty" yaml:"importPath,omitempty"`

	// Children is nil or non-empty.
	Children []*RouteNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *RouteNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// HasView reports whether a view module backs this node.
func (n *RouteNode) HasView() bool {
	return n.ImportPath != ""
}

// DuplicatePolicy decides what happens when two files back the same route.
type DuplicatePolicy string

const (
	// RejectDuplicates fails the build with ErrAmbiguousLeaf. This is the default.
	RejectDuplicates DuplicatePolicy = "reject"

	// LastWins keeps the import path of the file that appears last in the input.
	LastWins DuplicatePolicy = "last-wins"
)

// Options configures Build.
type Options struct {
	// Root is the directory every file must live under.
	Root string `validate:"required"`

	// Extensions lists the view file extensions to strip, with or without
	// the leading dot. Nil means DefaultExtensions; an empty non-nil slice
	// is rejected.
	Extensions []string `validate:"min=1,dive,required"`

	// Duplicates selects the policy for files that map to the same route.
	// Empty means RejectDuplicates.
	Duplicates DuplicatePolicy `validate:"omitempty,oneof=reject last-wins"`
}

// withDefaults returns a copy of the options with defaults applied.
func (o Options) withDefaults() Options {
	if o.Extensions == nil {
		o.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if o.Duplicates == "" {
		o.Duplicates = RejectDuplicates
	}
	return o
}

package routetree

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/vango-dev/filerouter/pkg/routepath"
)

// paramPattern matches a bracketed parameter token: [slug] → :slug.
var paramPattern = regexp.MustCompile(`\[([^\]]+)\]`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// node is the mutable form of RouteNode used while inserting.
type node struct {
	path       string
	importPath string

	// source is the input file that set importPath.
	source string

	children []*node
}

// addChild adds or retrieves a child node for the given path.
func (n *node) addChild(path string) *node {
	return addNode(&n.children, path)
}

func findNode(nodes []*node, path string) *node {
	for _, child := range nodes {
		if child.path == path {
			return child
		}
	}
	return nil
}

func addNode(nodes *[]*node, path string) *node {
	if existing := findNode(*nodes, path); existing != nil {
		return existing
	}
	child := &node{path: path}
	*nodes = append(*nodes, child)
	return child
}

// builder accumulates the tree for a single Build call.
type builder struct {
	opts  Options
	roots []*node
}

// Build converts files into a nested route tree.
//
// Files are processed in order. Each must lie under opts.Root; the path
// relative to the root, minus one configured extension, is split on "/"
// and inserted segment by segment. The returned tree has no empty
// Children slices.
func Build(files []string, opts Options) ([]*RouteNode, error) {
	opts = opts.withDefaults()
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	b := &builder{opts: opts}
	for _, file := range files {
		if err := b.insertFile(file); err != nil {
			return nil, err
		}
	}

	return prune(b.roots), nil
}

// validateOptions checks options before any file is processed.
func validateOptions(opts Options) error {
	err := validate.Struct(opts)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &BuildError{Kind: ErrInvalidOptions, Detail: err.Error(), Err: err}
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, describeField(fe))
	}
	return &BuildError{
		Kind:   ErrInvalidOptions,
		Detail: strings.Join(details, "; "),
		Err:    err,
	}
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if strings.HasPrefix(fe.Namespace(), "Options.Extensions[") {
			return fmt.Sprintf("%s must not be empty", fe.Field())
		}
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must list at least one extension", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %q or %q, got %q", fe.Field(), RejectDuplicates, LastWins, fe.Value())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}

// insertFile maps one file onto the tree.
func (b *builder) insertFile(file string) error {
	// Import references must survive as JS string literals unchanged.
	if !utf8.ValidString(file) {
		return &BuildError{
			Kind:   ErrInvalidPath,
			File:   file,
			Detail: "path is not valid UTF-8",
		}
	}

	rel, err := routepath.Relative(b.opts.Root, file)
	if err != nil {
		return &BuildError{
			Kind:   ErrPathOutsideRoot,
			File:   file,
			Detail: fmt.Sprintf("not under root %q", b.opts.Root),
			Err:    err,
		}
	}

	rel = routepath.StripExtension(rel, b.opts.Extensions)
	segments := routepath.Split(rel)
	for i, seg := range segments {
		segments[i] = convertParams(seg)
	}

	return b.insert(segments, file, routepath.Normalize(file))
}

// insert walks segments from the top level, creating nodes as needed, and
// assigns importPath to the node the final segment resolves to.
func (b *builder) insert(segments []string, file, importPath string) error {
	var parent *node
	var route []string

	for i, seg := range segments {
		last := i == len(segments)-1

		if last && seg == indexSegment {
			target := parent
			if target == nil {
				target = addNode(&b.roots, IndexPath)
			}
			return b.assign(target, routeString(route), file, importPath)
		}

		path := "/" + seg
		var current *node
		if parent == nil {
			current = addNode(&b.roots, path)
		} else {
			current = parent.addChild(path)
		}
		route = append(route, path)

		if last {
			return b.assign(current, routeString(route), file, importPath)
		}
		parent = current
	}

	return nil
}

// assign sets the import path of n according to the duplicate policy.
func (b *builder) assign(n *node, route, file, importPath string) error {
	if n.importPath != "" && n.source != file && b.opts.Duplicates == RejectDuplicates {
		return &BuildError{
			Kind:   ErrAmbiguousLeaf,
			File:   file,
			Other:  n.source,
			Route:  route,
			Detail: fmt.Sprintf("route %s is already backed by %s", route, n.source),
		}
	}
	n.importPath = importPath
	n.source = file
	return nil
}

// convertParams rewrites every [name] token in a segment to :name.
// Unbalanced brackets are left untouched.
func convertParams(segment string) string {
	return paramPattern.ReplaceAllString(segment, ":$1")
}

func routeString(route []string) string {
	if len(route) == 0 {
		return IndexPath
	}
	return strings.Join(route, "")
}

// prune converts the working tree into RouteNodes, dropping empty children.
func prune(nodes []*node) []*RouteNode {
	out := make([]*RouteNode, 0, len(nodes))
	for _, n := range nodes {
		rn := &RouteNode{
			Path:       n.path,
			ImportPath: n.importPath,
		}
		if len(n.children) > 0 {
			rn.Children = prune(n.children)
		}
		out = append(out, rn)
	}
	return out
}

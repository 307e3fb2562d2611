package routegen

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/vango-dev/filerouter/pkg/routetree"
)

// DefaultBindingPrefix names the generated bindings (FileRoute0, FileRoute1, ...).
const DefaultBindingPrefix = "FileRoute"

// VirtualModuleID is the import specifier application code uses for the
// generated module.
const VirtualModuleID = "virtual:file-routes"

// Generator errors.
var (
	ErrInvalidPrefix = errors.New("binding prefix is not a valid identifier")

	// ErrNilNode means the tree contains a nil *RouteNode.
	ErrNilNode = errors.New("route tree contains a nil node")

	// ErrSerializationMismatch means the route objects did not reference the
	// bindings in pre-order. It indicates a bug, never bad input.
	ErrSerializationMismatch = errors.New("route objects and bindings are out of order")
)

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Options configures generation.
type Options struct {
	// BindingPrefix is the identifier prefix of the bindings.
	// Default: DefaultBindingPrefix.
	BindingPrefix string

	// Loading is an optional import reference of a component rendered while
	// a view loads. Empty renders an empty fragment.
	Loading string
}

// Binding is one deferred view binding.
type Binding struct {
	// Name is the generated identifier, e.g. "FileRoute3".
	Name string

	// Route is the full route path of the node, e.g. "/blog/:slug".
	Route string

	// ImportPath is the module the binding loads. Empty means the binding
	// is a placeholder for a node without a view.
	ImportPath string
}

// Placeholder reports whether the binding renders nothing.
func (b Binding) Placeholder() bool {
	return b.ImportPath == ""
}

// Module is a generated virtual module.
type Module struct {
	// Bindings are in pre-order, Bindings[i].Name == prefix + i.
	Bindings []Binding

	// Source is the module text.
	Source []byte
}

// String returns the module source.
func (m *Module) String() string {
	return string(m.Source)
}

// Generator renders route trees.
type Generator struct {
	tree []*routetree.RouteNode
	opts Options
}

// NewGenerator creates a generator for the given tree.
func NewGenerator(tree []*routetree.RouteNode, opts Options) *Generator {
	if opts.BindingPrefix == "" {
		opts.BindingPrefix = DefaultBindingPrefix
	}
	return &Generator{tree: tree, opts: opts}
}

// Generate renders the tree with the given options.
func Generate(tree []*routetree.RouteNode, opts Options) (*Module, error) {
	return NewGenerator(tree, opts).Generate()
}

// Generate renders the module. The output is byte-identical for identical
// trees and options.
func (g *Generator) Generate() (*Module, error) {
	if !identPattern.MatchString(g.opts.BindingPrefix) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, g.opts.BindingPrefix)
	}
	if err := checkNodes(g.tree, ""); err != nil {
		return nil, err
	}

	e := &emitter{prefix: g.opts.BindingPrefix, fallback: "<></>"}
	if g.opts.Loading != "" {
		e.fallback = "<Loading />"
	}

	routes := e.emitNodes(g.tree, "", 1)

	if err := e.check(routetree.Count(g.tree)); err != nil {
		return nil, err
	}

	decls := make([]string, len(e.bindings))
	for i, b := range e.bindings {
		decls[i] = declare(b)
	}

	var buf bytes.Buffer
	err := moduleTemplate.Execute(&buf, moduleData{
		Loading:  g.opts.Loading,
		Bindings: decls,
		Routes:   routes,
	})
	if err != nil {
		return nil, err
	}

	return &Module{Bindings: e.bindings, Source: buf.Bytes()}, nil
}

// emitter holds the state of one Generate call. Bindings and route objects
// are produced in the same pre-order visit from a single counter.
type emitter struct {
	prefix   string
	fallback string
	bindings []Binding

	// refs records the binding index each route object referenced, in the
	// order the objects were written.
	refs []int
}

// emitNodes writes the bindings for nodes and their descendants and returns
// the comma-joined route objects.
func (e *emitter) emitNodes(nodes []*routetree.RouteNode, parentRoute string, depth int) string {
	items := make([]string, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, e.emitNode(n, parentRoute, depth))
	}
	return strings.Join(items, ",\n")
}

func (e *emitter) emitNode(n *routetree.RouteNode, parentRoute string, depth int) string {
	idx := len(e.bindings)
	name := fmt.Sprintf("%s%d", e.prefix, idx)
	route := joinRoute(parentRoute, n.Path)
	e.bindings = append(e.bindings, Binding{
		Name:       name,
		Route:      route,
		ImportPath: n.ImportPath,
	})
	e.refs = append(e.refs, idx)

	pad := strings.Repeat("  ", depth)
	var b strings.Builder
	b.WriteString(pad + "{\n")
	b.WriteString(pad + "  path: " + Quote(objectPath(n.Path)) + ",\n")
	b.WriteString(pad + "  element: (\n")
	b.WriteString(pad + "    <React.Suspense fallback={" + e.fallback + "}>\n")
	b.WriteString(pad + "      <" + name + " />\n")
	b.WriteString(pad + "    </React.Suspense>\n")
	b.WriteString(pad + "  )")
	if len(n.Children) > 0 {
		b.WriteString(",\n")
		b.WriteString(pad + "  children: [\n")
		b.WriteString(e.emitNodes(n.Children, route, depth+2))
		b.WriteString("\n" + pad + "  ]")
	}
	b.WriteString("\n" + pad + "}")
	return b.String()
}

// checkNodes rejects nil nodes anywhere in the tree. parent is the route of
// the enclosing node, used to locate the hole.
func checkNodes(nodes []*routetree.RouteNode, parent string) error {
	for i, n := range nodes {
		if n == nil {
			where := parent
			if where == "" {
				where = "top level"
			}
			return fmt.Errorf("%w: child %d of %s", ErrNilNode, i, where)
		}
		if err := checkNodes(n.Children, joinRoute(parent, n.Path)); err != nil {
			return err
		}
	}
	return nil
}

// check asserts that route object i referenced binding i for every node.
func (e *emitter) check(nodes int) error {
	if len(e.bindings) != nodes || len(e.refs) != nodes {
		return fmt.Errorf("%w: %d nodes, %d bindings, %d route objects",
			ErrSerializationMismatch, nodes, len(e.bindings), len(e.refs))
	}
	for i, ref := range e.refs {
		if ref != i {
			return fmt.Errorf("%w: route object %d references binding %d", ErrSerializationMismatch, i, ref)
		}
	}
	return nil
}

// declare renders the declaration of a binding.
func declare(b Binding) string {
	if b.Placeholder() {
		return fmt.Sprintf("const %s = React.Fragment;", b.Name)
	}
	return fmt.Sprintf("const %s = React.lazy(() => import(%s));", b.Name, Quote(b.ImportPath))
}

// objectPath strips the leading slash of a node path. "/" and "*" are kept.
func objectPath(path string) string {
	if path == routetree.IndexPath {
		return path
	}
	return strings.TrimPrefix(path, "/")
}

// joinRoute appends a node path to its parent's full route.
func joinRoute(parent, path string) string {
	seg := strings.TrimPrefix(path, "/")
	switch {
	case seg == "" && parent == "":
		return "/"
	case seg == "":
		return parent
	case parent == "" || parent == "/":
		return "/" + seg
	default:
		return parent + "/" + seg
	}
}

type moduleData struct {
	Loading  string
	Bindings []string
	Routes   string
}

var moduleTemplate = template.Must(template.New("module").Funcs(template.FuncMap{
	"quote": Quote,
}).Parse(`// Code generated by filerouter. DO NOT EDIT.

import React from "react";
{{- if .Loading}}
import Loading from {{quote .Loading}};
{{- end}}
{{range .Bindings}}
{{.}}
{{- end}}

export default [
{{.Routes}}
];
`))

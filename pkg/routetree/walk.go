package routetree

import "errors"

// SkipChildren may be returned by a WalkFunc to skip the node's descendants.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk.
// depth is 0 for top-level nodes.
type WalkFunc func(n *RouteNode, depth int) error

// Walk visits the tree in pre-order: each node, then its children in order.
// Returning SkipChildren skips the node's descendants; any other error
// stops the walk and is returned.
func Walk(nodes []*RouteNode, fn WalkFunc) error {
	return walk(nodes, 0, fn)
}

func walk(nodes []*RouteNode, depth int, fn WalkFunc) error {
	for _, n := range nodes {
		err := fn(n, depth)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if err := walk(n.Children, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the total number of nodes in the tree.
func Count(nodes []*RouteNode) int {
	count := 0
	_ = Walk(nodes, func(*RouteNode, int) error {
		count++
		return nil
	})
	return count
}

// AppendCatchAll returns nodes with a "*" route backed by ref appended as
// the last top-level sibling. An empty ref leaves nodes unchanged.
func AppendCatchAll(nodes []*RouteNode, ref string) []*RouteNode {
	if ref == "" {
		return nodes
	}
	out := make([]*RouteNode, 0, len(nodes)+1)
	out = append(out, nodes...)
	return append(out, &RouteNode{Path: CatchAllPath, ImportPath: ref})
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/filerouter/internal/compile"
	"github.com/vango-dev/filerouter/internal/errors"
	"github.com/vango-dev/filerouter/pkg/routetree"
)

func treeCmd() *cobra.Command {
	var (
		project projectFlags
		format  string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the route tree",
		Long: `Build the route tree from the pages directory and print it.

Formats:
  text   an indented tree (default)
  json   the RouteNode list as JSON
  yaml   the RouteNode list as YAML

Examples:
  filerouter tree
  filerouter tree --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := project.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			res, err := compile.New(cfg).Compile(ctx)
			if err != nil {
				return err
			}
			return printTree(os.Stdout, filepath.Base(cfg.RootPath()), res.Tree, format)
		},
	}

	project.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")

	return cmd
}

// printTree writes nodes to w in the given format.
func printTree(w io.Writer, title string, nodes []*routetree.RouteNode, format string) error {
	if nodes == nil {
		nodes = []*routetree.RouteNode{}
	}

	switch format {
	case "text", "":
		root := gtree.NewRoot(title)
		addTreeNodes(root, nodes)
		return gtree.OutputProgrammably(w, root)

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(nodes); err != nil {
			return err
		}
		return enc.Close()

	default:
		return errors.Newf(errors.CategoryCLI, "unknown format %q", format).
			WithSuggestion("Use one of: text, json, yaml")
	}
}

func addTreeNodes(parent *gtree.Node, nodes []*routetree.RouteNode) {
	for _, n := range nodes {
		addTreeNodes(parent.Add(treeLabel(n)), n.Children)
	}
}

func treeLabel(n *routetree.RouteNode) string {
	if n.ImportPath == "" {
		return n.Path
	}
	return fmt.Sprintf("%s  %s", n.Path, n.ImportPath)
}

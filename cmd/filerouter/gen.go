package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/filerouter/internal/compile"
	"github.com/vango-dev/filerouter/internal/publish"
)

func genCmd() *cobra.Command {
	var (
		project projectFlags
		output  string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the route module",
		Long: `Scan the pages directory, build the route tree and write the route module.

The output target is taken from --output, then from "output" in
filerouter.json, and defaults to stdout. Targets:

  -                     stdout
  path/to/routes.jsx    a file (rewritten only when its content changes)
  s3://bucket/key.js    an S3 object (credentials from AWS_* variables)

The output is deterministic: running gen twice over the same pages
produces identical bytes.

Examples:
  filerouter gen
  filerouter gen -o src/.filerouter/routes.gen.jsx
  filerouter gen --root app/pages --not-found ./app/pages/404.tsx
  filerouter gen -o s3://assets/app/routes.js`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd.Context(), &project, output)
		},
	}

	project.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output target (default from filerouter.json, else stdout)")

	return cmd
}

func runGen(ctx context.Context, project *projectFlags, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := project.load()
	if err != nil {
		return err
	}

	target := cfg.OutputTarget()
	if output != "" {
		target, err = resolveTarget(output)
		if err != nil {
			return err
		}
	}

	res, err := compile.New(cfg).Compile(ctx)
	if err != nil {
		return err
	}

	sink, err := publish.Open(target)
	if err != nil {
		return err
	}
	changed, err := sink.Publish(ctx, res.Module.Source)
	if err != nil {
		return err
	}

	if sink.String() == "stdout" {
		return nil
	}
	if !changed {
		info("%s is up to date (%d routes)", sink, res.Routes())
		return nil
	}
	success("Generated %d routes from %d files in %s", res.Routes(), len(res.Files), sink)
	return nil
}

// resolveTarget makes a file target absolute. Stdout and S3 targets are
// returned unchanged.
func resolveTarget(target string) (string, error) {
	if target == "-" || strings.HasPrefix(target, "s3://") {
		return target, nil
	}
	return absPath(target)
}

func absPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Abs(path)
}

package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/filerouter/internal/config"
	"github.com/vango-dev/filerouter/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		dir   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold the router files",
		Long: `Write the files needed to use the generated routes:

  src/Router.tsx          renders virtual:file-routes in a BrowserRouter
  src/file-routes.d.ts    TypeScript declarations for virtual:file-routes
  filerouter.json         default configuration

Existing files are skipped unless --force is given.

Examples:
  filerouter init
  filerouter init --dir web --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(dir, force)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(dir string, force bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	results, err := templates.Scaffold(abs, config.New(), force)
	for _, r := range results {
		if r.Skipped {
			warn("%s already exists. Skipping.", r.Path)
		} else {
			success("Created %s", r.Path)
		}
	}
	if err != nil {
		return err
	}

	info("Put your pages in %s", filepath.Join(dir, config.DefaultRoot))
	return nil
}

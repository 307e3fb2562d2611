package templates

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/vango-dev/filerouter/internal/config"
	"github.com/vango-dev/filerouter/internal/errors"
)

// File is a scaffold file.
type File struct {
	// Path is relative to the project directory, slash-separated.
	Path string

	// Content is the file body.
	Content string
}

// Result reports what Scaffold did with one file.
type Result struct {
	Path    string
	Skipped bool
}

// Files returns the scaffold for a project using cfg.
func Files(cfg *config.Config) ([]File, error) {
	data, err := cfg.Marshal()
	if err != nil {
		return nil, err
	}
	return []File{
		{Path: "src/Router.tsx", Content: routerTSX},
		{Path: "src/file-routes.d.ts", Content: typingsDTS},
		{Path: config.ConfigFileName, Content: string(data)},
	}, nil
}

// Write writes f under dir. An existing file is left untouched and E146
// is returned unless force is set.
func Write(dir string, f File, force bool) error {
	fullPath := filepath.Join(dir, filepath.FromSlash(f.Path))

	if !force {
		if _, err := os.Stat(fullPath); err == nil {
			return errors.New("E146").
				WithFile(fullPath).
				WithSuggestion("Pass --force to overwrite it")
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.FromError(err, "E111")
	}
	if err := os.WriteFile(fullPath, []byte(f.Content), 0644); err != nil {
		return errors.FromError(err, "E111")
	}
	return nil
}

// Scaffold writes the default files into dir. Files that already exist
// are skipped unless force is set.
func Scaffold(dir string, cfg *config.Config, force bool) ([]Result, error) {
	files, err := Files(cfg)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	for _, f := range files {
		err := Write(dir, f, force)
		var fe *errors.FilerouterError
		switch {
		case err == nil:
			results = append(results, Result{Path: f.Path})
		case stderrors.As(err, &fe) && fe.Code == "E146":
			results = append(results, Result{Path: f.Path, Skipped: true})
		default:
			return results, err
		}
	}
	return results, nil
}

func source(s string) string {
	return strings.TrimLeft(dedent.Dedent(s), "\n")
}

var routerTSX = source(`
	import React from "react";
	import { BrowserRouter, Routes, Route } from "react-router-dom";
	import fileRoutes, { type VirtualRoute } from "virtual:file-routes";

	function renderRoutes(routes: VirtualRoute[]): JSX.Element[] {
	  return routes.map((route, idx) => (
	    <Route key={` + "`${route.path}-${idx}`" + `} path={route.path} element={route.element}>
	      {route.children ? renderRoutes(route.children) : null}
	    </Route>
	  ));
	}

	const GeneratedRouter: React.FC = () => {
	  return (
	    <BrowserRouter>
	      <Routes>{renderRoutes(fileRoutes)}</Routes>
	    </BrowserRouter>
	  );
	};

	export default GeneratedRouter;
`)

var typingsDTS = source(`
	declare module "virtual:file-routes" {
	  import type { ReactNode } from "react";

	  export interface VirtualRoute {
	    path: string;
	    element: ReactNode;
	    children?: VirtualRoute[];
	  }

	  const routes: VirtualRoute[];
	  export default routes;
	}
`)

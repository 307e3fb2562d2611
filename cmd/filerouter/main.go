package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/filerouter/internal/config"
	"github.com/vango-dev/filerouter/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬┬  ┌─┐┬─┐┌─┐┬ ┬┌┬┐┌─┐┬─┐
  ├┤ ││  ├┤ ├┬┘│ ││ │ │ ├┤ ├┬┘
  └  ┴┴─┘└─┘┴└─└─┘└─┘ ┴ └─┘┴└─
`

// globalFlags are shared by every command.
type globalFlags struct {
	verbose bool
	noColor bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "filerouter",
		Short: "File-based routes for React Router",
		Long: `filerouter turns a directory of page files into a React Router route
table with lazily loaded views.

  src/pages/index.tsx         ->  /
  src/pages/about.tsx         ->  /about
  src/pages/blog/[slug].tsx   ->  /blog/:slug

The generated module is published as the virtual module
"virtual:file-routes", written to a file or uploaded to S3.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				errors.DisableColors()
			}
			level := slog.LevelInfo
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		genCmd(),
		treeCmd(),
		devCmd(),
		initCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// projectFlags override filerouter.json for a single invocation.
type projectFlags struct {
	root     string
	notFound string
	loading  string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.root, "root", "", "Pages directory (default from filerouter.json)")
	cmd.Flags().StringVar(&f.notFound, "not-found", "", "Import reference of the catch-all view")
	cmd.Flags().StringVar(&f.loading, "loading", "", "Import reference of the Suspense fallback")
}

// load reads the project configuration and applies the flag overrides.
// A --root given on the command line is resolved against the working
// directory.
func (f *projectFlags) load() (*config.Config, error) {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return nil, err
	}
	if f.root != "" {
		root, err := absPath(f.root)
		if err != nil {
			return nil, err
		}
		cfg.Root = root
	}
	if f.notFound != "" {
		cfg.NotFound = f.notFound
	}
	if f.loading != "" {
		cfg.Loading = f.loading
	}
	return cfg, nil
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Fprint(os.Stderr, banner)
}

// Status messages go to stderr so that generated output on stdout stays clean.

// success prints a success message.
func success(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/filerouter/internal/dev"
	"github.com/vango-dev/filerouter/internal/publish"
)

func devCmd() *cobra.Command {
	var (
		project projectFlags
		port    int
		host    string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server.

The dev server watches the pages directory, recompiles the route module
whenever a page is added, changed or removed, serves it at
/virtual:file-routes and tells connected browsers to reload.

If "output" is set in filerouter.json the module is also published there
after every successful compile.

Examples:
  filerouter dev
  filerouter dev --port=8080
  filerouter dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(&project, port, host)
		},
	}

	project.register(cmd)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from filerouter.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from filerouter.json)")

	return cmd
}

func runDev(project *projectFlags, port int, host string) error {
	cfg, err := project.load()
	if err != nil {
		return err
	}

	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var sink publish.Sink
	if target := cfg.OutputTarget(); target != "" && target != "-" {
		sink, err = publish.Open(target)
		if err != nil {
			return err
		}
	}

	printBanner()
	info("Pages:  %s", cfg.RootPath())
	info("Module: %s%s", cfg.DevURL(), dev.ModulePath)
	if sink != nil {
		info("Output: %s", sink)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := dev.NewServer(dev.ServerOptions{
		Config: cfg,
		Sink:   sink,
	})
	if err := srv.Start(ctx); err != nil {
		errorMsg("Dev server stopped: %v", err)
		return err
	}
	success("Dev server stopped")
	return nil
}

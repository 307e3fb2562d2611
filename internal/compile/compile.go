// Package compile runs the route pipeline: discover page files, build the
// route tree, append the catch-all route and render the route module.
//
// Every call starts from scratch. Nothing is cached between compilations.
package compile

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/filerouter/internal/config"
	"github.com/vango-dev/filerouter/internal/discover"
	"github.com/vango-dev/filerouter/internal/errors"
	"github.com/vango-dev/filerouter/pkg/routegen"
	"github.com/vango-dev/filerouter/pkg/routetree"
)

const defaultTracerName = "filerouter"

// Result is the output of one compilation.
type Result struct {
	// Files are the discovered page files, in build order.
	Files []string

	// Tree is the route tree, including the catch-all route if configured.
	Tree []*routetree.RouteNode

	// Module is the rendered route module.
	Module *routegen.Module

	// Duration is the wall time of the compilation.
	Duration time.Duration
}

// Routes returns the number of nodes in the tree.
func (r *Result) Routes() int {
	return routetree.Count(r.Tree)
}

// Compiler compiles a project's pages into a route module.
type Compiler struct {
	cfg     *config.Config
	finder  *discover.Finder
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithMetrics records compilations into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Compiler) {
		c.metrics = m
	}
}

// WithTracerName sets the name of the tracer taken from the global provider.
func WithTracerName(name string) Option {
	return func(c *Compiler) {
		c.tracer = otel.Tracer(name)
	}
}

// New creates a Compiler for cfg.
func New(cfg *config.Config, opts ...Option) *Compiler {
	c := &Compiler{
		cfg: cfg,
		finder: &discover.Finder{
			Root:       cfg.RootPath(),
			Extensions: cfg.Extensions,
			Ignore:     cfg.Ignore,
		},
		logger: slog.Default(),
		tracer: otel.Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Finder returns the file finder used by Compile.
func (c *Compiler) Finder() *discover.Finder {
	return c.finder
}

// Compile discovers the page files and compiles them.
func (c *Compiler) Compile(ctx context.Context) (*Result, error) {
	return c.run(ctx, nil, true)
}

// CompileFiles compiles an explicit, ordered list of absolute file paths.
func (c *Compiler) CompileFiles(ctx context.Context, files []string) (*Result, error) {
	return c.run(ctx, files, false)
}

func (c *Compiler) run(ctx context.Context, files []string, find bool) (*Result, error) {
	start := time.Now()
	root := c.cfg.RootPath()

	_, span := c.tracer.Start(ctx, "filerouter.compile",
		trace.WithAttributes(attribute.String("filerouter.root", root)),
	)
	defer span.End()

	res, err := c.compile(ctx, files, find)
	duration := time.Since(start)

	routes := 0
	if res != nil {
		res.Duration = duration
		routes = res.Routes()
		span.SetAttributes(
			attribute.Int("filerouter.files", len(res.Files)),
			attribute.Int("filerouter.routes", routes),
		)
	}
	c.metrics.observe(duration, routes, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("compile failed", "root", root, "duration", duration, "error", err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	c.logger.Debug("compiled routes",
		"root", root,
		"files", len(res.Files),
		"routes", routes,
		"duration", duration,
	)
	return res, nil
}

func (c *Compiler) compile(ctx context.Context, files []string, find bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if find {
		found, err := c.finder.Find()
		if err != nil {
			return nil, errors.FromError(err, "E110")
		}
		files = found
	}

	tree, err := routetree.Build(files, c.cfg.RouteOptions())
	if err != nil {
		return nil, errors.FromRouteError(err)
	}
	if c.cfg.NotFound != "" {
		tree = routetree.AppendCatchAll(tree, c.cfg.NotFound)
	}

	mod, err := routegen.Generate(tree, routegen.Options{Loading: c.cfg.Loading})
	if err != nil {
		return nil, errors.FromRouteError(err)
	}

	return &Result{Files: files, Tree: tree, Module: mod}, nil
}

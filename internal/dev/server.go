package dev

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/filerouter/internal/compile"
	"github.com/vango-dev/filerouter/internal/config"
	"github.com/vango-dev/filerouter/internal/errors"
	"github.com/vango-dev/filerouter/internal/publish"
	"github.com/vango-dev/filerouter/pkg/routegen"
	"github.com/vango-dev/filerouter/pkg/routetree"
)

// HTTP paths served by the development server.
const (
	ModulePath  = "/" + routegen.VirtualModuleID
	RoutesPath  = "/_filerouter/routes.json"
	ReloadPath  = "/_filerouter/reload"
	ClientPath  = "/_filerouter/client.js"
	MetricsPath = "/metrics"
	HealthPath  = "/healthz"
)

// ResolveID maps a module id requested by a bundler to the HTTP path that
// serves it. Both the bare id and the "/@id/" and "\x00" prefixed forms
// are recognised.
func ResolveID(id string) (string, bool) {
	id = strings.TrimPrefix(id, "\x00")
	id = strings.TrimPrefix(id, "/@id/")
	id = strings.TrimPrefix(id, "\x00")
	if id == routegen.VirtualModuleID {
		return ModulePath, true
	}
	return "", false
}

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	// Compiler compiles the routes. Built from Config when nil.
	Compiler *compile.Compiler

	// Sink, if set, receives every successfully compiled module.
	Sink publish.Sink

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// Registry collects the compile metrics served at /metrics.
	// A fresh registry is used when nil.
	Registry *prometheus.Registry

	// OnCompile is called after every compilation.
	OnCompile func(result *compile.Result, err error)
}

// Server is the development server. It recompiles the route module whenever
// a page file is added, changed or removed, serves it over HTTP and tells
// connected browsers to reload.
type Server struct {
	config   *config.Config
	options  ServerOptions
	compiler *compile.Compiler
	watcher  *Watcher
	reload   *ReloadServer
	logger   *slog.Logger
	handler  http.Handler
	changeCh chan Change

	// buildMu serializes compilations.
	buildMu sync.Mutex

	// mu guards the last compilation outcome read by HTTP handlers.
	mu      sync.RWMutex
	result  *compile.Result
	lastErr error

	// publishErr is the last publish failure, cleared by a good publish.
	publishErr error

	runMu      sync.Mutex
	running    bool
	httpServer *http.Server
}

// NewServer creates a new development server.
func NewServer(options ServerOptions) *Server {
	cfg := options.Config

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := options.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	compiler := options.Compiler
	if compiler == nil {
		compiler = compile.New(cfg,
			compile.WithLogger(logger),
			compile.WithMetrics(compile.NewMetrics(registry)),
		)
	}

	watcher := NewWatcher(WatcherConfig{
		Paths:    []string{cfg.RootPath()},
		Ignore:   DefaultIgnore,
		Match:    compiler.Finder().Matches,
		Debounce: cfg.DebounceDuration(),
	})

	s := &Server{
		config:   cfg,
		options:  options,
		compiler: compiler,
		watcher:  watcher,
		reload:   NewReloadServer(),
		logger:   logger,
		changeCh: make(chan Change, 64),
	}
	s.handler = s.routes(registry)
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get(ModulePath, s.serveModule)
	r.Get("/@id/"+routegen.VirtualModuleID, s.serveModule)
	r.Get(RoutesPath, s.serveRoutes)
	r.Get(ReloadPath, s.reload.HandleWebSocket)
	r.Get(ClientPath, serveClient)
	r.Method(http.MethodGet, MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok\n"))
	})
	return r
}

// Rebuild compiles the routes once, stores the outcome, publishes the
// module and notifies connected browsers.
func (s *Server) Rebuild(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	res, err := s.compiler.Compile(ctx)

	s.mu.Lock()
	hadErr := s.lastErr != nil || s.publishErr != nil
	s.result, s.lastErr = res, err
	s.mu.Unlock()

	if s.options.OnCompile != nil {
		s.options.OnCompile(res, err)
	}

	if err != nil {
		s.reload.NotifyError(reloadError(err))
		return err
	}

	if sink := s.options.Sink; sink != nil {
		changed, perr := sink.Publish(ctx, res.Module.Source)
		s.mu.Lock()
		s.publishErr = perr
		s.mu.Unlock()
		if perr != nil {
			s.logger.Warn("publish failed", "target", sink.String(), "error", perr)
			s.reload.NotifyError(reloadError(perr))
			return perr
		}
		if changed {
			s.logger.Info("published routes", "target", sink.String())
		}
	}

	s.logger.Info("routes compiled",
		"files", len(res.Files),
		"routes", res.Routes(),
		"duration", res.Duration.Round(time.Microsecond),
	)
	if hadErr {
		s.reload.ClearError()
	}
	s.reload.NotifyReload()
	return nil
}

// Result returns the outcome of the last compilation.
func (s *Server) Result() (*compile.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.lastErr
}

// Start compiles the routes, then watches for changes and serves HTTP until
// ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		return nil
	}
	s.running = true
	s.httpServer = &http.Server{
		Addr:              s.config.DevAddress(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer := s.httpServer
	s.runMu.Unlock()

	// Initial build; failures are reported to browsers once they connect.
	_ = s.Rebuild(ctx)

	s.watcher.OnChange(func(change Change) {
		select {
		case s.changeCh <- change:
		default:
		}
	})

	go s.watcher.Start(ctx)
	go s.processChanges(ctx)

	s.logger.Info("dev server running",
		"url", s.config.DevURL(),
		"module", s.config.DevURL()+ModulePath,
		"root", s.config.RootPath(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop stops the development server.
func (s *Server) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	s.watcher.Stop()
	s.reload.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// processChanges serializes file change handling and coalesces bursts.
func (s *Server) processChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-s.changeCh:
			changes := []Change{change}
			draining := true
			for draining {
				select {
				case next := <-s.changeCh:
					changes = append(changes, next)
				default:
					draining = false
				}
			}
			s.handleChanges(ctx, changes)
		}
	}
}

// handleChanges recompiles once for a batch of file changes.
func (s *Server) handleChanges(ctx context.Context, changes []Change) {
	if len(changes) == 0 {
		return
	}
	for _, change := range changes {
		s.logger.Debug("page changed", "path", change.Path, "kind", change.Kind.String())
	}
	_ = s.Rebuild(ctx)
}

func (s *Server) serveModule(w http.ResponseWriter, r *http.Request) {
	res, err := s.Result()

	w.Header().Set("Content-Type", publish.ContentType+"; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	switch {
	case err != nil:
		msg := reloadError(err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("throw new Error(" + routegen.Quote(errorText(msg)) + ");\n"))
	case res == nil:
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("throw new Error(\"filerouter: routes are not compiled yet\");\n"))
	default:
		w.Write(res.Module.Source)
	}
}

type bindingJSON struct {
	Name       string `json:"name"`
	Route      string `json:"route"`
	ImportPath string `json:"importPath,omitempty"`
}

type routesJSON struct {
	Routes   []*routetree.RouteNode `json:"routes"`
	Bindings []bindingJSON          `json:"bindings"`
	Files    []string               `json:"files"`
	Duration string                 `json:"duration"`
}

func (s *Server) serveRoutes(w http.ResponseWriter, r *http.Request) {
	res, err := s.Result()

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	switch {
	case err != nil:
		w.WriteHeader(http.StatusInternalServerError)
		enc.Encode(map[string]any{"error": errors.FromError(err, "E103")})
	case res == nil:
		w.WriteHeader(http.StatusServiceUnavailable)
		enc.Encode(map[string]string{"error": "routes are not compiled yet"})
	default:
		out := routesJSON{
			Routes:   res.Tree,
			Bindings: make([]bindingJSON, len(res.Module.Bindings)),
			Files:    res.Files,
			Duration: res.Duration.String(),
		}
		if out.Routes == nil {
			out.Routes = []*routetree.RouteNode{}
		}
		for i, b := range res.Module.Bindings {
			out.Bindings[i] = bindingJSON{Name: b.Name, Route: b.Route, ImportPath: b.ImportPath}
		}
		enc.Encode(out)
	}
}

func serveClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", publish.ContentType+"; charset=utf-8")
	w.Write([]byte(DevClientScript))
}

// reloadError converts err into the message pushed to browsers.
func reloadError(err error) ReloadMessage {
	var fe *errors.FilerouterError
	if stderrors.As(err, &fe) {
		text := fe.Message
		if fe.Detail != "" {
			text += ": " + fe.Detail
		}
		return ReloadMessage{Type: ReloadTypeError, Error: text, Code: fe.Code, File: fe.File}
	}
	return ReloadMessage{Type: ReloadTypeError, Error: err.Error()}
}

func errorText(msg ReloadMessage) string {
	text := "filerouter: "
	if msg.Code != "" {
		text += msg.Code + ": "
	}
	return text + msg.Error
}

// Package dev provides the development server for the generated route module.
//
// This package implements:
//   - Polling of the pages directory for added, changed and removed files
//   - Full recompilation of the route module on every change
//   - HTTP serving of the virtual module and of the route tree
//   - WebSocket-based browser reload
//
// # Architecture
//
//   - Watcher: Monitors the pages directory for changes
//   - Server: Recompiles, publishes and serves the module
//   - ReloadServer: Notifies browsers of changes via WebSocket
//
// # Usage
//
//	srv := dev.NewServer(dev.ServerOptions{Config: cfg})
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
//	GET /virtual:file-routes      the generated module
//	GET /_filerouter/routes.json  the route tree and bindings
//	GET /_filerouter/reload       reload WebSocket
//	GET /_filerouter/client.js    reload client script
//	GET /metrics                  Prometheus metrics
//	GET /healthz                  liveness
//
// # Reload Protocol
//
// Messages are JSON-encoded:
//
//	{"type": "reload"}                               // routes changed
//	{"type": "error", "code": "E102", "error": "..."} // compile failed
//	{"type": "clear"}                                // error resolved
package dev

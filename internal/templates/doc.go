// Package templates provides the files written by `filerouter init`.
//
// The scaffold consists of:
//
//   - src/Router.tsx: renders the generated routes inside a BrowserRouter
//   - src/file-routes.d.ts: TypeScript declarations for virtual:file-routes
//   - filerouter.json: the default configuration
//
// Existing files are never overwritten unless forced.
package templates

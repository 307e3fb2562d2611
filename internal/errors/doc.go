// Package errors provides structured, actionable error messages for filerouter.
//
// Every user-facing failure carries a code (e.g. "E101") that maps to a
// short message, a longer explanation and a documentation link. Failures
// from the route compiler are converted with FromRouteError so the CLI and
// the dev server can present them the same way.
//
// # Error Categories
//
//   - route: the page files cannot be compiled into a route tree
//   - generate: the route module could not be rendered (internal bug)
//   - config: filerouter.json or the environment is invalid
//   - io: discovery or publishing failed
//   - cli: command usage errors
//
// # Usage
//
//	err := errors.New("E101").
//	    WithFile("/app/components/Button.tsx").
//	    WithSuggestion("Move the file under the pages root or adjust \"root\"")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E101: Page file outside the pages root
//	//
//	//   /app/components/Button.tsx
//	//
//	//   Hint: Move the file under the pages root or adjust "root"
//	//
//	//   Learn more: https://filerouter.dev/docs/errors/E101
package errors

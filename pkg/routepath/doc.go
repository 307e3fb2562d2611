// Package routepath normalizes filesystem paths into the slash-separated,
// root-relative form the route tree is built from.
//
// All functions are pure string transformations. They never touch the
// filesystem, so the same input always yields the same output regardless
// of the working directory or which files exist.
package routepath

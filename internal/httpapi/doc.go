// Package httpapi exposes identification, enrollment, and comparison over a
// small JSON HTTP API built on fiber.
//
// Handlers run one at a time: a single mutex wraps every request so the
// matching core and roster are only ever driven from one goroutine.
package httpapi

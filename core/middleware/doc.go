// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the
// handler.
//
// # Components
//
//   - RayID: Generates a unique request id (ray id) for every incoming
//     request, injecting it into the context and response headers for
//     tracing.
//
// Middleware components are registered globally in the serve command.
package middleware

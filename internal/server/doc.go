// Package server provides HTTP routing, middleware, and the page handlers
// for the jukebox web application.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally; handlers
// register method-qualified patterns such as "GET /songs".
//
// # Session Gate
//
// The [Gate] middleware is the only component that touches the session
// registry during page requests. On every gated request it validates the
// sessionId cookie, rotates the token with a fresh lifetime (sliding
// expiration), and attaches the resolved [Identity] to the request context.
// Handlers read identity with [IdentityFrom] and never consult any shared
// mutable login state.
//
// Requests without a live session are redirected to the login page; the
// login, signup, register and logout paths stay outside the gate.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib
// handler interface and adds routes, allowing handlers to register multiple
// routes to encapsulate route definitions within the implementation.
package server

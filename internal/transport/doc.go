// Package transport implements the two interchangeable strategies behind the
// public client: a direct HTTP strategy and a service-mesh strategy that routes
// every call through a local sidecar.
//
// # Strategies
//
//   - [DirectClient]: sends requests to BaseURL with a shared [http.Client] whose
//     RoundTripper injects the bearer token and runs request hooks.
//
//   - [MeshClient]: rewrites every path to
//     http://<host>:<port>/v1.0/invoke/<app-id>/method/<path> and manages its own
//     per-request timeout.
//
// Both strategies share the same token store, hook registry and failure path, and
// both classify failures with the functions in internal/apierrors so the taxonomy
// cannot drift between them.
//
// # Hooks
//
// Request, response and error hooks are ordered observer lists. Registering a hook
// returns a function that removes it. The direct strategy lets request hooks
// mutate or abort the outgoing request; the mesh strategy only notifies them with
// a copy of the request.
//
// # Thread Safety
//
// Both client types are safe for concurrent use. Changing the token while a
// request is being built may or may not affect that request.
package transport

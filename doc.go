// Package apiclient provides a pluggable REST client for backend services.
//
// A client sends JSON requests either directly to a base URL or through a
// local service-mesh sidecar, behind one Client interface. Every failure is
// returned as an *Error with a stable shape, so callers handle transport
// failures and HTTP error responses the same way.
//
// Basic usage:
//
//	client, err := apiclient.New(apiclient.WithBaseURL("https://api.example.com"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client.SetAuthToken(token)
//
//	product, err := apiclient.GetAs[Product](ctx, client, "/products/42")
//	if errors.Is(err, apiclient.ErrNotFound) {
//	    // ...
//	}
//
// Mesh mode routes the same calls through the sidecar:
//
//	client, err := apiclient.New(
//	    apiclient.WithMesh("inventory-service"),
//	    apiclient.WithSidecarPort(3500),
//	)
//
// FromEnv builds a client from API_BASE_URL, USE_DAPR, DAPR_APP_ID and
// DAPR_HTTP_PORT, and a Provider holds one shared instance for an application.
package apiclient

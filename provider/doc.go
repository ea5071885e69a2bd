// Package provider defines the request/response shape shared by outbound
// backends and the middleware that decorates them.
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[vlm.Request, vlm.Response](log),
//	    provider.WithMetrics[vlm.Request, vlm.Response](metrics),
//	    provider.WithTracing[vlm.Request, vlm.Response]("vlm"),
//	)(adapter)
//
// Middlewares never retry; each Execute reaches the inner provider once.
package provider

// Package httpclient is the outbound HTTP layer used by the vision-model
// dialects and the Gradio client. It resolves paths against a base URL,
// applies default headers and authentication, encodes JSON or multipart
// bodies, and classifies non-2xx responses into typed errors.
//
// Requests are sent exactly once. There is no retry layer.
//
//	client, _ := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.openai.com",
//	    Auth:    httpclient.BearerAuth(key),
//	})
//	resp, err := client.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/v1/chat/completions", Body: payload})
//
// Subpackages:
//
//   - rest: typed JSON helpers (rest.Post[T], rest.Get[T])
//   - sse: Server-Sent Events reader
package httpclient

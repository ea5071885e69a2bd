// Package rest provides typed JSON helpers on top of httpclient:
//
//	client, _ := rest.New(httpclient.Config{BaseURL: "https://api.anthropic.com"})
//	resp, err := rest.Post[messagesResponse](ctx, client, "/v1/messages", body)
//
// Error responses are decoded into T when possible and returned together
// with the classified *httpclient.Error.
package rest

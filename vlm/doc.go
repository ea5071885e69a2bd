// Package vlm sends image-plus-text prompts to hosted vision-language models.
//
// An Adapter combines the rest client with a Dialect that knows one
// provider's endpoint, authentication and JSON shapes. Dialects for OpenAI,
// Google and Anthropic live in the openai, google and anthropic subpackages.
//
//	adapter, err := vlm.New(anthropic.Dialect{}, vlm.Config{APIKey: key})
//	resp, err := adapter.Execute(ctx, vlm.Request{
//	    Prompt: "Please transcribe all the text visible in this image.",
//	    Images: []vlm.Image{{MimeType: "image/png", Data: png}},
//	})
//
// Every Execute issues exactly one POST. Failures are reported as
// *APIError for non-2xx answers, ErrResponseShape for bodies that lack the
// expected text field, and *httpclient.Error for transport problems.
package vlm

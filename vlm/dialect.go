package vlm

import "github.com/kbukum/vlmscribe/httpclient"

// Dialect maps the neutral Request and Response types to one provider's
// HTTP contract.
type Dialect interface {
	// Name is the short identifier used in logs and spans (e.g. "openai").
	Name() string
	// Label is the human-readable provider name (e.g. "OpenAI").
	Label() string
	// DefaultBaseURL is used when Config.BaseURL is empty.
	DefaultBaseURL() string
	// DefaultModel is used when neither the request nor the config name one.
	DefaultModel() string
	// Path returns the endpoint path for the given model.
	Path(model string) string
	// Auth returns how the API key is attached to requests.
	Auth(apiKey string) *httpclient.AuthConfig
	// Headers are extra headers sent on every request.
	Headers() map[string]string
	// BuildRequest returns the JSON-encodable request body.
	BuildRequest(req Request) (any, error)
	// ParseResponse extracts the text from a 2xx response body. A body
	// without the expected field yields an error wrapping ErrResponseShape.
	ParseResponse(body []byte) (Response, error)
}

package httpclient

import "net/http"

// AuthType identifies how a credential is attached to a request.
type AuthType int

const (
	// AuthNone sends no credential.
	AuthNone AuthType = iota
	// AuthBearer sends "Authorization: Bearer <credential>".
	AuthBearer
	// AuthAPIKey sends the credential in a named header or query parameter.
	AuthAPIKey
)

// defaultKeyName is used when an API key config leaves Name empty.
const defaultKeyName = "X-API-Key"

// AuthConfig attaches a provider credential to every request.
type AuthConfig struct {
	Type AuthType
	// Credential is the bearer token or API key.
	Credential string
	// Name is the header or query parameter carrying an API key.
	Name string
	// InQuery sends an API key as a query parameter instead of a header.
	InQuery bool
}

// BearerAuth authenticates with a bearer token (OpenAI, Hugging Face).
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Credential: token}
}

// APIKeyAuthHeader sends key in the given header (Anthropic's x-api-key).
func APIKeyAuthHeader(key, header string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Credential: key, Name: header}
}

// APIKeyAuthQuery sends key as a query parameter (Google's ?key=).
func APIKeyAuthQuery(key, param string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Credential: key, Name: param, InQuery: true}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.Type == AuthNone {
		return
	}
	if a.Type == AuthBearer {
		req.Header.Set("Authorization", "Bearer "+a.Credential)
		return
	}

	name := a.Name
	if name == "" {
		name = defaultKeyName
	}
	if !a.InQuery {
		req.Header.Set(name, a.Credential)
		return
	}
	q := req.URL.Query()
	q.Set(name, a.Credential)
	req.URL.RawQuery = q.Encode()
}

package transcription

import (
	"errors"
	"fmt"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/provider"
	"github.com/kbukum/vlmscribe/vlm"
	"github.com/kbukum/vlmscribe/vlm/anthropic"
	"github.com/kbukum/vlmscribe/vlm/google"
	"github.com/kbukum/vlmscribe/vlm/openai"
)

// Selector errors. Both are returned wrapped in a configuration AppError.
var (
	ErrUnsupportedModel  = errors.New("transcription: unsupported model")
	ErrMissingCredential = errors.New("transcription: missing credential")
)

// Config holds per-provider settings. API keys are normally bound from
// OPENAI_API_KEY, GOOGLE_API_KEY and ANTHROPIC_API_KEY.
type Config struct {
	OpenAI    vlm.Config `yaml:"openai" mapstructure:"openai"`
	Google    vlm.Config `yaml:"google" mapstructure:"google"`
	Anthropic vlm.Config `yaml:"anthropic" mapstructure:"anthropic"`
}

// Validate checks every provider block.
func (c *Config) Validate() error {
	for name, pc := range map[string]*vlm.Config{"openai": &c.OpenAI, "google": &c.Google, "anthropic": &c.Anthropic} {
		if err := pc.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Configured reports which provider kinds have an API key set.
func (c *Config) Configured() map[ProviderKind]bool {
	return map[ProviderKind]bool{
		KindOpenAI:    c.OpenAI.APIKey != "",
		KindGoogle:    c.Google.APIKey != "",
		KindAnthropic: c.Anthropic.APIKey != "",
	}
}

// Middleware wraps every vlm client built by a Selector.
type Middleware = provider.Middleware[vlm.Request, vlm.Response]

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithImageSource sets where providers read images from.
func WithImageSource(src ImageSource) SelectorOption {
	return func(s *Selector) {
		s.images = src
	}
}

// WithMiddleware wraps built vlm clients; the first middleware is outermost.
func WithMiddleware(mw ...Middleware) SelectorOption {
	return func(s *Selector) {
		s.middleware = append(s.middleware, mw...)
	}
}

// Selector maps model identifiers to providers.
type Selector struct {
	cfg        Config
	images     ImageSource
	middleware []Middleware
}

// NewSelector creates a selector over cfg.
func NewSelector(cfg Config, opts ...SelectorOption) *Selector {
	s := &Selector{cfg: cfg, images: FileSource{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select builds the provider for id. Unknown identifiers and missing
// credentials are configuration errors wrapping ErrUnsupportedModel and
// ErrMissingCredential.
func (s *Selector) Select(id string) (Provider, error) {
	model, ok := ParseModel(id)
	if !ok {
		return nil, apperrors.Configuration("Unsupported model: " + id).
			WithDetail("model", id).
			WithCause(ErrUnsupportedModel)
	}

	var (
		client *vlm.Adapter
		err    error
	)
	switch model.Kind() {
	case KindOpenAI:
		client, err = openai.New(s.cfg.OpenAI)
	case KindGoogle:
		client, err = google.New(s.cfg.Google)
	case KindAnthropic:
		client, err = anthropic.New(s.cfg.Anthropic)
	default:
		return nil, apperrors.Configuration("Unsupported model: " + id).WithCause(ErrUnsupportedModel)
	}
	if err != nil {
		if errors.Is(err, vlm.ErrMissingAPIKey) {
			return nil, apperrors.Configuration(err.Error()).
				WithDetail("model", id).
				WithCause(fmt.Errorf("%w: %w", ErrMissingCredential, err))
		}
		return nil, apperrors.Configuration(err.Error()).WithDetail("model", id).WithCause(err)
	}

	var rr provider.RequestResponse[vlm.Request, vlm.Response] = client
	if len(s.middleware) > 0 {
		rr = provider.Chain(s.middleware...)(rr)
	}
	return NewVisionProvider(model, rr, s.images), nil
}

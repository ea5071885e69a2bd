package vlm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kbukum/vlmscribe/httpclient"
	"github.com/kbukum/vlmscribe/httpclient/rest"
	"github.com/kbukum/vlmscribe/provider"
)

// compile-time assertion
var _ provider.RequestResponse[Request, Response] = (*Adapter)(nil)

// Adapter is a config-driven vision client for one provider dialect.
type Adapter struct {
	rest    *rest.Client
	dialect Dialect
	cfg     Config
}

// New creates an adapter. It fails with a *MissingKeyError when cfg has no
// API key.
func New(dialect Dialect, cfg Config) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	if cfg.APIKey == "" {
		return nil, &MissingKeyError{Provider: dialect.Label()}
	}
	cfg.applyDefaults(dialect)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("vlm: %s config: %w", dialect.Name(), err)
	}

	client, err := rest.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    dialect.Auth(cfg.APIKey),
		Headers: dialect.Headers(),
	})
	if err != nil {
		return nil, fmt.Errorf("vlm: create rest client: %w", err)
	}
	return &Adapter{rest: client, dialect: dialect, cfg: cfg}, nil
}

// Name returns the dialect name.
func (a *Adapter) Name() string { return a.dialect.Name() }

// IsAvailable reports whether the adapter holds credentials. It does not
// contact the provider.
func (a *Adapter) IsAvailable(context.Context) bool { return a.cfg.APIKey != "" }

// Dialect returns the dialect used by this adapter.
func (a *Adapter) Dialect() Dialect { return a.dialect }

// Model returns the default model of this adapter.
func (a *Adapter) Model() string { return a.cfg.Model }

// Execute sends one request and returns the extracted text.
func (a *Adapter) Execute(ctx context.Context, req Request) (Response, error) {
	if req.Prompt == "" && len(req.Images) == 0 {
		return Response{}, ErrEmptyRequest
	}
	a.applyDefaults(&req)

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return Response{}, fmt.Errorf("vlm: build %s request: %w", a.dialect.Name(), err)
	}

	resp, err := rest.Post[json.RawMessage](ctx, a.rest, a.dialect.Path(req.Model), body)
	if err != nil {
		if httpErr, ok := httpclient.AsError(err); ok && httpErr.StatusCode > 0 {
			return Response{}, &APIError{
				Provider:   a.dialect.Label(),
				StatusCode: httpErr.StatusCode,
				Message:    errorMessage(httpErr.Body, httpErr.Message),
				Err:        err,
			}
		}
		if resp != nil {
			// 2xx with an undecodable body
			return Response{}, fmt.Errorf("%w: %v", ErrResponseShape, err)
		}
		return Response{}, err
	}

	out, err := a.dialect.ParseResponse(resp.Raw)
	if err != nil {
		return Response{}, err
	}
	if out.Model == "" {
		out.Model = req.Model
	}
	return out, nil
}

func (a *Adapter) applyDefaults(req *Request) {
	if req.Model == "" {
		req.Model = a.cfg.Model
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.cfg.MaxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = a.cfg.Temperature
	}
}

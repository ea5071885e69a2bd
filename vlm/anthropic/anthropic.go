// Package anthropic implements the vlm dialect for the Anthropic messages API.
package anthropic

import (
	"encoding/json"

	"github.com/kbukum/vlmscribe/httpclient"
	"github.com/kbukum/vlmscribe/vlm"
)

const (
	// Name is the dialect identifier.
	Name = "anthropic"
	// APIVersion is sent in the anthropic-version header.
	APIVersion = "2023-06-01"

	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-3-opus-20240229"
)

// compile-time assertion
var _ vlm.Dialect = Dialect{}

// Dialect speaks POST /v1/messages with the x-api-key header.
type Dialect struct{}

// New returns an adapter for Anthropic.
func New(cfg vlm.Config) (*vlm.Adapter, error) {
	return vlm.New(Dialect{}, cfg)
}

func (Dialect) Name() string           { return Name }
func (Dialect) Label() string          { return "Anthropic" }
func (Dialect) DefaultBaseURL() string { return defaultBaseURL }
func (Dialect) DefaultModel() string   { return defaultModel }

func (Dialect) Path(string) string { return "/v1/messages" }

func (Dialect) Auth(apiKey string) *httpclient.AuthConfig {
	return httpclient.APIKeyAuthHeader(apiKey, "x-api-key")
}

func (Dialect) Headers() map[string]string {
	return map[string]string{"anthropic-version": APIVersion}
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string  `json:"role"`
	Content []block `json:"content"`
}

type block struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// BuildRequest sends the text block first, followed by base64 image blocks.
func (Dialect) BuildRequest(req vlm.Request) (any, error) {
	blocks := make([]block, 0, len(req.Images)+1)
	blocks = append(blocks, block{Type: "text", Text: req.Prompt})
	for _, img := range req.Images {
		blocks = append(blocks, block{
			Type:   "image",
			Source: &imageSource{Type: "base64", MediaType: img.MimeType, Data: img.Base64()},
		})
	}
	return messagesRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages:    []message{{Role: "user", Content: blocks}},
	}, nil
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Text *string `json:"text"`
	} `json:"content"`
	Usage vlm.Usage `json:"usage"`
}

// ParseResponse reads content[0].text.
func (Dialect) ParseResponse(body []byte) (vlm.Response, error) {
	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return vlm.Response{}, vlm.ShapeError("content[0].text")
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return vlm.Response{}, vlm.ShapeError("content[0].text")
	}
	return vlm.Response{Text: *resp.Content[0].Text, Model: resp.Model, Usage: resp.Usage}, nil
}

// Package openai implements the vlm dialect for the OpenAI chat completions API.
package openai

import (
	"encoding/json"

	"github.com/kbukum/vlmscribe/httpclient"
	"github.com/kbukum/vlmscribe/vlm"
)

const (
	// Name is the dialect identifier.
	Name = "openai"

	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4-vision-preview"
)

// compile-time assertion
var _ vlm.Dialect = Dialect{}

// Dialect speaks POST /v1/chat/completions with Bearer authentication.
type Dialect struct{}

// New returns an adapter for OpenAI.
func New(cfg vlm.Config) (*vlm.Adapter, error) {
	return vlm.New(Dialect{}, cfg)
}

func (Dialect) Name() string           { return Name }
func (Dialect) Label() string          { return "OpenAI" }
func (Dialect) DefaultBaseURL() string { return defaultBaseURL }
func (Dialect) DefaultModel() string   { return defaultModel }

func (Dialect) Path(string) string { return "/v1/chat/completions" }

func (Dialect) Auth(apiKey string) *httpclient.AuthConfig {
	return httpclient.BearerAuth(apiKey)
}

func (Dialect) Headers() map[string]string { return nil }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// BuildRequest puts the text part first, followed by one image_url part
// per image.
func (Dialect) BuildRequest(req vlm.Request) (any, error) {
	parts := make([]contentPart, 0, len(req.Images)+1)
	parts = append(parts, contentPart{Type: "text", Text: req.Prompt})
	for _, img := range req.Images {
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: img.DataURL()}})
	}
	return chatRequest{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: parts}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}, nil
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// ParseResponse reads choices[0].message.content.
func (Dialect) ParseResponse(body []byte) (vlm.Response, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return vlm.Response{}, vlm.ShapeError("choices[0].message.content")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return vlm.Response{}, vlm.ShapeError("choices[0].message.content")
	}
	return vlm.Response{
		Text:  *resp.Choices[0].Message.Content,
		Model: resp.Model,
		Usage: vlm.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

// Package google implements the vlm dialect for the Gemini generateContent API.
package google

import (
	"encoding/json"

	"github.com/kbukum/vlmscribe/httpclient"
	"github.com/kbukum/vlmscribe/vlm"
)

const (
	// Name is the dialect identifier.
	Name = "google"

	defaultBaseURL     = "https://generativelanguage.googleapis.com"
	defaultModel       = "gemini-pro-vision"
	defaultTemperature = 0.1
)

// compile-time assertion
var _ vlm.Dialect = Dialect{}

// Dialect speaks POST /v1beta/models/{model}:generateContent with the key
// passed as a query parameter.
type Dialect struct{}

// New returns an adapter for Google.
func New(cfg vlm.Config) (*vlm.Adapter, error) {
	return vlm.New(Dialect{}, cfg)
}

func (Dialect) Name() string           { return Name }
func (Dialect) Label() string          { return "Google" }
func (Dialect) DefaultBaseURL() string { return defaultBaseURL }
func (Dialect) DefaultModel() string   { return defaultModel }

func (Dialect) Path(model string) string {
	return "/v1beta/models/" + model + ":generateContent"
}

func (Dialect) Auth(apiKey string) *httpclient.AuthConfig {
	return httpclient.APIKeyAuthQuery(apiKey, "key")
}

func (Dialect) Headers() map[string]string { return nil }

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// BuildRequest sends a single content block holding the text and the inline
// images. Temperature defaults to 0.1.
func (Dialect) BuildRequest(req vlm.Request) (any, error) {
	parts := make([]part, 0, len(req.Images)+1)
	parts = append(parts, part{Text: req.Prompt})
	for _, img := range req.Images {
		parts = append(parts, part{InlineData: &inlineData{MimeType: img.MimeType, Data: img.Base64()}})
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	return generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}, nil
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

// ParseResponse reads candidates[0].content.parts[0].text.
func (Dialect) ParseResponse(body []byte) (vlm.Response, error) {
	const path = "candidates[0].content.parts[0].text"
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return vlm.Response{}, vlm.ShapeError(path)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 ||
		resp.Candidates[0].Content.Parts[0].Text == nil {
		return vlm.Response{}, vlm.ShapeError(path)
	}
	return vlm.Response{
		Text: *resp.Candidates[0].Content.Parts[0].Text,
		Usage: vlm.Usage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		},
	}, nil
}

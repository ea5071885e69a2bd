package vlm

import "encoding/base64"

// Image is one inline image attached to a request.
type Image struct {
	MimeType string
	Data     []byte
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL returns the image as a data: URL.
func (i Image) DataURL() string {
	return "data:" + i.MimeType + ";base64," + i.Base64()
}

// Request is the provider-neutral input of a vision call.
type Request struct {
	// Model overrides the adapter's default model.
	Model string
	// Prompt is the text part sent before the images.
	Prompt string
	Images []Image
	// MaxTokens caps the response length. Zero uses the adapter default.
	MaxTokens int
	// Temperature is only sent by dialects that support it. Zero uses the adapter default.
	Temperature float64
}

// Response is the provider-neutral output of a vision call.
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Usage reports token consumption when the provider returns it.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

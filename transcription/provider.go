package transcription

import (
	"context"
	"errors"
	"strings"

	"github.com/kbukum/vlmscribe/httpclient"
	"github.com/kbukum/vlmscribe/provider"
	"github.com/kbukum/vlmscribe/vlm"
)

// BasePrompt is the fixed transcription instruction sent with every image.
const BasePrompt = "Please transcribe all the text visible in this image."

// Request holds the inputs of one transcription.
type Request struct {
	// ImagePath references the image to transcribe.
	ImagePath string `json:"image_path"`
	// Instruction is appended to BasePrompt when non-empty.
	Instruction string `json:"instruction,omitempty"`
}

// Provider transcribes images with one model.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()

	// Transcribe performs one attempt. Failures are reported in the Result.
	Transcribe(ctx context.Context, req Request) Result
}

// ErrNoText reports a successful provider answer that carried no text.
var ErrNoText = errors.New("provider returned no text")

// BuildPrompt combines BasePrompt with an optional instruction.
func BuildPrompt(instruction string) string {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return BasePrompt
	}
	return BasePrompt + " " + instruction
}

// VisionProvider implements Provider over a vlm request/response provider.
type VisionProvider struct {
	model  Model
	client provider.RequestResponse[vlm.Request, vlm.Response]
	images ImageSource
}

// compile-time assertion
var _ Provider = (*VisionProvider)(nil)

// NewVisionProvider creates a provider for model. A nil image source reads
// from the local filesystem.
func NewVisionProvider(model Model, client provider.RequestResponse[vlm.Request, vlm.Response], images ImageSource) *VisionProvider {
	if images == nil {
		images = FileSource{}
	}
	return &VisionProvider{model: model, client: client, images: images}
}

// Name returns the underlying client name.
func (p *VisionProvider) Name() string { return p.client.Name() }

// IsAvailable delegates to the underlying client.
func (p *VisionProvider) IsAvailable(ctx context.Context) bool { return p.client.IsAvailable(ctx) }

// Model returns the model this provider serves.
func (p *VisionProvider) Model() Model { return p.model }

// Transcribe loads the image and issues exactly one vision request.
func (p *VisionProvider) Transcribe(ctx context.Context, req Request) Result {
	img, err := p.images.Load(ctx, req.ImagePath)
	if err != nil {
		return Failed(FailureImage, err)
	}

	resp, err := p.client.Execute(ctx, vlm.Request{
		Prompt:    BuildPrompt(req.Instruction),
		Images:    []vlm.Image{img},
		MaxTokens: vlm.DefaultMaxTokens,
	})
	if err != nil {
		return Failed(classify(err), err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return Failed(FailureResponse, ErrNoText)
	}
	return Success(resp.Text)
}

func classify(err error) FailureKind {
	var apiErr *vlm.APIError
	switch {
	case errors.As(err, &apiErr):
		return FailureStatus
	case errors.Is(err, vlm.ErrResponseShape):
		return FailureResponse
	case httpclient.IsStatus(err):
		return FailureStatus
	default:
		return FailureTransport
	}
}

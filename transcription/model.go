package transcription

// Model identifies one of the supported vision models.
type Model string

// Supported models.
const (
	ModelGPT4Vision      Model = "gpt-4-vision"
	ModelGeminiProVision Model = "gemini-pro-vision"
	ModelClaude3Vision   Model = "claude-3-vision"
)

// UnknownModelName is the display name of identifiers outside the enum.
const UnknownModelName = "Unknown Model"

// ProviderKind names the API family serving a model.
type ProviderKind string

// Provider kinds.
const (
	KindOpenAI    ProviderKind = "openai"
	KindGoogle    ProviderKind = "google"
	KindAnthropic ProviderKind = "anthropic"
)

var models = []Model{ModelGPT4Vision, ModelGeminiProVision, ModelClaude3Vision}

// Models returns the supported models in presentation order.
func Models() []Model {
	out := make([]Model, len(models))
	copy(out, models)
	return out
}

// ParseModel returns the Model for id and whether it is supported.
func ParseModel(id string) (Model, bool) {
	for _, m := range models {
		if string(m) == id {
			return m, true
		}
	}
	return "", false
}

// String returns the identifier.
func (m Model) String() string { return string(m) }

// DisplayName returns the human-readable model name.
func (m Model) DisplayName() string {
	switch m {
	case ModelGPT4Vision:
		return "GPT-4 Vision"
	case ModelGeminiProVision:
		return "Gemini Pro Vision"
	case ModelClaude3Vision:
		return "Claude 3 Vision"
	default:
		return UnknownModelName
	}
}

// Kind returns the provider kind serving m, or "" for an unknown model.
func (m Model) Kind() ProviderKind {
	switch m {
	case ModelGPT4Vision:
		return KindOpenAI
	case ModelGeminiProVision:
		return KindGoogle
	case ModelClaude3Vision:
		return KindAnthropic
	default:
		return ""
	}
}

// DisplayName returns the display name for an arbitrary identifier.
func DisplayName(id string) string {
	return Model(id).DisplayName()
}

package provider

import "context"

// Provider is the base interface all providers implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable reports whether the provider is configured to handle requests.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a provider that maps one input to one output.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a plain function into a RequestResponse provider.
type Func[I, O any] struct {
	ProviderName string
	Fn           func(ctx context.Context, input I) (O, error)
}

func (f Func[I, O]) Name() string                         { return f.ProviderName }
func (f Func[I, O]) IsAvailable(ctx context.Context) bool { return f.Fn != nil }

func (f Func[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.Fn(ctx, input)
}

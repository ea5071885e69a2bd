package transcription

import "fmt"

// FailureKind classifies why a transcription attempt failed.
type FailureKind string

// Failure kinds.
const (
	// FailureImage means the image could not be read.
	FailureImage FailureKind = "image"
	// FailureTransport means the request never got an HTTP answer.
	FailureTransport FailureKind = "transport"
	// FailureStatus means the provider answered with a non-2xx status.
	FailureStatus FailureKind = "status"
	// FailureResponse means a 2xx body lacked the expected text.
	FailureResponse FailureKind = "response"
)

// Failure is a typed transcription failure.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Result is the outcome of one transcription attempt. Exactly one of Text or
// Failure is meaningful: Failure is nil on success.
type Result struct {
	Text    string
	Failure *Failure
}

// Success returns a successful Result.
func Success(text string) Result {
	return Result{Text: text}
}

// Failed returns a failed Result.
func Failed(kind FailureKind, err error) Result {
	return Result{Failure: &Failure{Kind: kind, Err: err}}
}

// OK reports whether the attempt succeeded.
func (r Result) OK() bool { return r.Failure == nil }

// Render returns the text of a successful attempt or the user-facing error
// message of a failed one.
func (r Result) Render() string {
	if r.Failure == nil {
		return r.Text
	}
	return "Error transcribing image: " + r.Failure.Err.Error()
}

// Package transcription turns an image reference into transcribed text using
// one of the supported vision models.
//
// The closed Model enum names the three supported identifiers. A Selector
// builds the Provider for an identifier from per-provider vlm settings, and
// a Provider never returns a Go error: every failure is reported inside the
// Result so callers can store it alongside successful transcriptions.
//
// # Usage
//
//	sel := transcription.NewSelector(cfg, transcription.WithImageSource(images))
//	p, err := sel.Select("claude-3-vision")
//	if err != nil {
//	    // configuration error: unknown model or missing credential
//	}
//	res := p.Transcribe(ctx, transcription.Request{ImagePath: path})
//	fmt.Println(res.Render())
package transcription

// Package gradio is a minimal client for hosted Gradio applications such as
// Hugging Face Spaces. It uploads files and runs named API endpoints over the
// two-step call protocol: a POST that returns an event id, then a
// Server-Sent Events stream that delivers the result.
package gradio

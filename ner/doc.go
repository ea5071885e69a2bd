// Package ner transcribes images with entity tagging through a hosted Gradio
// space. The space runs a vision model and returns the transcription as
// tokens annotated with entity labels.
package ner

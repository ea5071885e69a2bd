package api

import (
	"github.com/kbukum/vlmscribe/history"
	"github.com/kbukum/vlmscribe/transcription"
)

// RecordView is a history record with its formatted date.
type RecordView struct {
	history.Record
	Date string `json:"date"`
}

func newRecordView(rec history.Record) RecordView {
	return RecordView{Record: rec, Date: rec.Date()}
}

// ModelView describes one supported model.
type ModelView struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Provider   string `json:"provider" yaml:"provider"`
	Configured bool   `json:"configured" yaml:"configured"`
}

// ModelViews lists the supported models. configured may be nil.
func ModelViews(configured map[transcription.ProviderKind]bool) []ModelView {
	models := transcription.Models()
	out := make([]ModelView, 0, len(models))
	for _, m := range models {
		out = append(out, ModelView{
			ID:         m.String(),
			Name:       m.DisplayName(),
			Provider:   string(m.Kind()),
			Configured: configured[m.Kind()],
		})
	}
	return out
}

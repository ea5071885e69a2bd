// Package document keeps entity-tagged transcriptions as documents. Each
// document stores the tagged transcript together with the annotations
// derived from its labelled tokens.
package document

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/ner"
)

// DefaultPrefix is the storage directory or redis key prefix for documents.
const DefaultPrefix = "documents"

// Annotation is one labelled token of a transcript. StartIndex and EndIndex
// are token positions, EndIndex exclusive.
type Annotation struct {
	Token      string `json:"token" yaml:"token"`
	NERClass   string `json:"ner_class" yaml:"ner_class"`
	StartIndex int    `json:"start_index" yaml:"start_index"`
	EndIndex   int    `json:"end_index" yaml:"end_index"`
}

// Document is one entity-tagged transcription of an image.
type Document struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	ImagePath   string       `json:"image_path" yaml:"image_path"`
	Model       string       `json:"model" yaml:"model"`
	Labels      string       `json:"labels" yaml:"labels"`
	Transcript  []ner.Entity `json:"transcript" yaml:"transcript"`
	Annotations []Annotation `json:"annotations" yaml:"annotations"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created_at"`
}

// Text joins the transcript tokens.
func (d Document) Text() string {
	var b strings.Builder
	for _, e := range d.Transcript {
		b.WriteString(e.Token)
	}
	return b.String()
}

// Annotate derives annotations from the tokens that carry a class label.
// Untagged tokens and numeric confidences produce none; labels are trimmed.
func Annotate(entities []ner.Entity) []Annotation {
	out := []Annotation{}
	for i, e := range entities {
		class := strings.TrimSpace(e.Label())
		if class == "" {
			continue
		}
		out = append(out, Annotation{Token: e.Token, NERClass: class, StartIndex: i, EndIndex: i + 1})
	}
	return out
}

// Store persists documents.
type Store interface {
	// Create stores a new document. An existing ID is an error.
	Create(ctx context.Context, doc Document) error
	// Get returns the document with the given ID.
	Get(ctx context.Context, id string) (Document, error)
	// List returns every readable document, newest first.
	List(ctx context.Context) ([]Document, error)
}

// NewID returns a time-ordered document ID.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// validID reports whether id can name a document.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// NotFound is the error returned by Get for a missing or unreadable document.
func NotFound(id string) *apperrors.AppError {
	err := apperrors.NotFound("document", id)
	err.Message = "Document not found"
	return err
}

func sortNewestFirst(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.After(docs[j].CreatedAt)
		}
		return docs[i].ID > docs[j].ID
	})
}

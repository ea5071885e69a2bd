package document

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/database"
	"github.com/kbukum/vlmscribe/ner"
)

// DocumentRow is the table model of a document. The transcript is kept as
// a JSON column; annotations get their own table.
type DocumentRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string
	ImagePath   string
	Model       string `gorm:"size:128"`
	Labels      string
	Transcript  string
	CreatedAt   time.Time       `gorm:"index"`
	Annotations []AnnotationRow `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for GORM.
func (DocumentRow) TableName() string { return "documents" }

// AnnotationRow is the table model of an annotation.
type AnnotationRow struct {
	ID         uint   `gorm:"primaryKey"`
	DocumentID string `gorm:"index;size:36"`
	Token      string
	NERClass   string `gorm:"column:ner_class;size:64"`
	StartIndex int
	EndIndex   int
}

// TableName sets the table name for GORM.
func (AnnotationRow) TableName() string { return "annotations" }

func toRow(doc Document) (DocumentRow, error) {
	transcript, err := json.Marshal(doc.Transcript)
	if err != nil {
		return DocumentRow{}, err
	}
	row := DocumentRow{
		ID:          doc.ID,
		Name:        doc.Name,
		ImagePath:   doc.ImagePath,
		Model:       doc.Model,
		Labels:      doc.Labels,
		Transcript:  string(transcript),
		CreatedAt:   doc.CreatedAt,
		Annotations: make([]AnnotationRow, len(doc.Annotations)),
	}
	for i, a := range doc.Annotations {
		row.Annotations[i] = AnnotationRow{
			DocumentID: doc.ID,
			Token:      a.Token,
			NERClass:   a.NERClass,
			StartIndex: a.StartIndex,
			EndIndex:   a.EndIndex,
		}
	}
	return row, nil
}

func (r DocumentRow) document() (Document, error) {
	var transcript []ner.Entity
	if err := json.Unmarshal([]byte(r.Transcript), &transcript); err != nil {
		return Document{}, err
	}
	doc := Document{
		ID:          r.ID,
		Name:        r.Name,
		ImagePath:   r.ImagePath,
		Model:       r.Model,
		Labels:      r.Labels,
		Transcript:  transcript,
		CreatedAt:   r.CreatedAt.UTC(),
		Annotations: make([]Annotation, len(r.Annotations)),
	}
	for i, a := range r.Annotations {
		doc.Annotations[i] = Annotation{Token: a.Token, NERClass: a.NERClass, StartIndex: a.StartIndex, EndIndex: a.EndIndex}
	}
	return doc, nil
}

func orderedAnnotations(db *gorm.DB) *gorm.DB {
	return db.Order("start_index")
}

// SQLStore keeps documents and their annotations in two tables.
type SQLStore struct {
	db *database.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore migrates the document tables and returns a store over db.
func NewSQLStore(db *database.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&DocumentRow{}, &AnnotationRow{}); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

// Create inserts the document row and its annotations in one transaction.
func (s *SQLStore) Create(ctx context.Context, doc Document) error {
	if !validID(doc.ID) {
		return apperrors.InvalidInput("id", "must be a UUID")
	}
	row, err := toRow(doc)
	if err != nil {
		return apperrors.Internal(err)
	}
	err = s.db.Transaction(ctx, func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		if database.IsDuplicateError(err) {
			return apperrors.AlreadyExists("document").WithCause(err)
		}
		return database.FromDatabase(err, "document", doc.ID)
	}
	return nil
}

// Get loads the document for id with its annotations.
func (s *SQLStore) Get(ctx context.Context, id string) (Document, error) {
	if !validID(id) {
		return Document{}, NotFound(id)
	}
	var row DocumentRow
	err := s.db.WithContext(ctx).Preload("Annotations", orderedAnnotations).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return Document{}, NotFound(id).WithCause(err)
		}
		return Document{}, database.FromDatabase(err, "document", id)
	}
	doc, err := row.document()
	if err != nil {
		return Document{}, NotFound(id).WithCause(err)
	}
	return doc, nil
}

// List returns every document, newest first.
func (s *SQLStore) List(ctx context.Context) ([]Document, error) {
	var rows []DocumentRow
	err := s.db.WithContext(ctx).Preload("Annotations", orderedAnnotations).Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, database.FromDatabase(err, "documents", "")
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.document()
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

package history

import (
	"context"

	"github.com/kbukum/vlmscribe/database"
	"github.com/kbukum/vlmscribe/validation"
)

// Row is the table model for SQLStore. The timestamp is the primary key.
type Row struct {
	Timestamp string `gorm:"primaryKey;size:18"`
	ImagePath string
	Prompt    string
	Model     string `gorm:"size:64"`
	Response  string
}

// TableName sets the table name for GORM.
func (Row) TableName() string { return "transcriptions" }

func rowFromRecord(r Record) Row {
	return Row{Timestamp: r.Timestamp, ImagePath: r.ImagePath, Prompt: r.Prompt, Model: r.Model, Response: r.Response}
}

func (r Row) record() Record {
	return Record{Timestamp: r.Timestamp, ImagePath: r.ImagePath, Prompt: r.Prompt, Model: r.Model, Response: r.Response}
}

// SQLStore keeps records in a relational table.
type SQLStore struct {
	db *database.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore migrates the history table and returns a store over db.
func NewSQLStore(db *database.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&Row{}); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

// Append inserts rec, relying on the primary key to detect a taken second.
func (s *SQLStore) Append(ctx context.Context, rec Record) (Record, error) {
	if err := checkAppend(rec); err != nil {
		return Record{}, err
	}
	for _, key := range candidates(rec.Timestamp) {
		stored := rec
		stored.Timestamp = key
		row := rowFromRecord(stored)
		err := s.db.WithContext(ctx).Create(&row).Error
		if err == nil {
			return stored, nil
		}
		if !database.IsDuplicateError(err) {
			return Record{}, database.FromDatabase(err, "history entry", key)
		}
	}
	return Record{}, exhausted(rec.Timestamp)
}

// List returns all rows ordered by timestamp descending.
func (s *SQLStore) List(ctx context.Context) ([]Record, error) {
	var rows []Row
	if err := s.db.WithContext(ctx).Order("timestamp DESC").Find(&rows).Error; err != nil {
		return nil, database.FromDatabase(err, "history", "")
	}
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}

// Get loads the row for ts.
func (s *SQLStore) Get(ctx context.Context, ts string) (Record, error) {
	if !validation.IsTimestamp(ts) {
		return Record{}, EntryNotFound(ts)
	}
	var row Row
	err := s.db.WithContext(ctx).Where("timestamp = ?", ts).Take(&row).Error
	if err != nil {
		if database.IsNotFoundError(err) {
			return Record{}, EntryNotFound(ts).WithCause(err)
		}
		return Record{}, database.FromDatabase(err, "history entry", ts)
	}
	return row.record(), nil
}

// Package history persists transcription records and lists them newest
// first. Records are keyed by their creation timestamp.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	apperrors "github.com/kbukum/vlmscribe/errors"
	"github.com/kbukum/vlmscribe/validation"
)

const (
	// TimestampLayout formats a record key: YYYYMMDDHHMMSS.
	TimestampLayout = "20060102150405"
	// DateLayout is the human-readable form returned by Record.Date.
	DateLayout = "2006-01-02 15:04:05"

	// MaxSuffix bounds the collision suffixes tried for one second.
	MaxSuffix = 999
)

// Record is one transcription attempt.
type Record struct {
	Timestamp string `json:"timestamp"`
	ImagePath string `json:"image_path"`
	Prompt    string `json:"prompt"`
	Model     string `json:"model"`
	Response  string `json:"response"`
}

// NewTimestamp formats t as a record key.
func NewTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Date renders the record timestamp as "YYYY-MM-DD HH:MM:SS". A key that
// does not parse is returned unchanged.
func (r Record) Date() string {
	ts := r.Timestamp
	if len(ts) > len(TimestampLayout) {
		ts = ts[:len(TimestampLayout)]
	}
	t, err := time.Parse(TimestampLayout, ts)
	if err != nil {
		return r.Timestamp
	}
	return t.Format(DateLayout)
}

// Store persists records.
type Store interface {
	// Append stores rec and returns it as stored. The timestamp gains a
	// "-NNN" suffix when the second is already taken.
	Append(ctx context.Context, rec Record) (Record, error)
	// List returns every readable record, newest first.
	List(ctx context.Context) ([]Record, error)
	// Get returns the record stored under ts.
	Get(ctx context.Context, ts string) (Record, error)
}

// candidates returns the keys tried, in order, when appending under ts.
func candidates(ts string) []string {
	keys := make([]string, 0, MaxSuffix)
	keys = append(keys, ts)
	for n := 2; n <= MaxSuffix; n++ {
		keys = append(keys, fmt.Sprintf("%s-%03d", ts, n))
	}
	return keys
}

func checkAppend(rec Record) error {
	if !validation.IsTimestamp(rec.Timestamp) {
		return apperrors.InvalidInput("timestamp", "must be YYYYMMDDHHMMSS")
	}
	return nil
}

var errNoTimestamp = errors.New("history: document has no valid timestamp")

// decodeRecord parses a stored document. Valid JSON without a well-formed
// timestamp ("null", "{}") is rejected like a syntax error.
func decodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	if !validation.IsTimestamp(rec.Timestamp) {
		return Record{}, errNoTimestamp
	}
	return rec, nil
}

func exhausted(ts string) error {
	return apperrors.Internal(fmt.Errorf("history: no free key for timestamp %s after %d attempts", ts, MaxSuffix))
}

// EntryNotFound is the error returned by Get for a missing or unreadable record.
func EntryNotFound(ts string) *apperrors.AppError {
	err := apperrors.NotFound("history entry", ts)
	err.Message = "History entry not found"
	return err
}

func sortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
}

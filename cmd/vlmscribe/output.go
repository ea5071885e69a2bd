package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/vlmscribe/document"
	"github.com/kbukum/vlmscribe/history"
	"github.com/kbukum/vlmscribe/transcription"
)

// Output formats accepted by -o.
const (
	formatTable = "table"
	formatText  = "text"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// previewWidth bounds the response column of the history table.
const previewWidth = 60

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q (use %s)", format, strings.Join(allowed, ", "))
}

// recordOutput is the serialized form of a record, with its date.
type recordOutput struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Date      string `json:"date" yaml:"date"`
	ImagePath string `json:"image_path" yaml:"image_path"`
	Prompt    string `json:"prompt" yaml:"prompt"`
	Model     string `json:"model" yaml:"model"`
	Response  string `json:"response" yaml:"response"`
}

func toOutput(rec history.Record) recordOutput {
	return recordOutput{
		Timestamp: rec.Timestamp,
		Date:      rec.Date(),
		ImagePath: rec.ImagePath,
		Prompt:    rec.Prompt,
		Model:     rec.Model,
		Response:  rec.Response,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeRecords renders records in the given format.
func writeRecords(w io.Writer, format string, records []history.Record) error {
	out := make([]recordOutput, 0, len(records))
	for _, rec := range records {
		out = append(out, toOutput(rec))
	}
	switch format {
	case formatJSON:
		return writeJSON(w, out)
	case formatYAML:
		return writeYAML(w, out)
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No transcription history yet.")
		return err
	}
	headers := []string{"DATE", "MODEL", "IMAGE", "RESPONSE"}
	rows := make([][]string, 0, len(out))
	for _, rec := range out {
		rows = append(rows, []string{
			rec.Date,
			transcription.DisplayName(rec.Model),
			rec.ImagePath,
			preview(rec.Response, previewWidth),
		})
	}
	return writeTable(w, headers, rows)
}

// writeRecord renders one record. The text format prints the labelled
// fields followed by the full response.
func writeRecord(w io.Writer, format string, rec history.Record) error {
	switch format {
	case formatJSON:
		return writeJSON(w, toOutput(rec))
	case formatYAML:
		return writeYAML(w, toOutput(rec))
	}
	fmt.Fprintf(w, "Date:   %s\n", rec.Date())
	fmt.Fprintf(w, "Model:  %s\n", transcription.DisplayName(rec.Model))
	fmt.Fprintf(w, "Image:  %s\n", rec.ImagePath)
	if rec.Prompt != "" {
		fmt.Fprintf(w, "Prompt: %s\n", rec.Prompt)
	}
	_, err := fmt.Fprintf(w, "\n%s\n", rec.Response)
	return err
}

// writeDocuments renders documents in the given format.
func writeDocuments(w io.Writer, format string, docs []document.Document) error {
	switch format {
	case formatJSON:
		return writeJSON(w, docs)
	case formatYAML:
		return writeYAML(w, docs)
	}

	if len(docs) == 0 {
		_, err := fmt.Fprintln(w, "No documents yet.")
		return err
	}
	headers := []string{"ID", "CREATED", "NAME", "ANNOTATIONS", "TEXT"}
	rows := make([][]string, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, []string{
			doc.ID,
			doc.CreatedAt.Local().Format(history.DateLayout),
			doc.Name,
			fmt.Sprint(len(doc.Annotations)),
			preview(doc.Text(), previewWidth),
		})
	}
	return writeTable(w, headers, rows)
}

// writeTable pads columns by display width so wide runes line up.
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	line := func(cells []string) error {
		var b strings.Builder
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteByte('\n')
		_, err := io.WriteString(w, b.String())
		return err
	}

	if err := line(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := line(row); err != nil {
			return err
		}
	}
	return nil
}

// preview flattens s to one line and truncates it to width display cells.
func preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "...")
}

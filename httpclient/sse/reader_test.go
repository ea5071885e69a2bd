package sse

import (
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, stream string) []Event {
	t.Helper()
	r := NewReader(io.NopCloser(strings.NewReader(stream)))
	defer r.Close()

	var events []Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		events = append(events, *ev)
	}
}

func TestReader(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   []Event
	}{
		{
			name:   "single data event",
			stream: "data: hello world\n\n",
			want:   []Event{{Data: "hello world"}},
		},
		{
			name:   "gradio call stream",
			stream: "event: heartbeat\ndata: null\n\nevent: complete\ndata: [\"ok\"]\n\n",
			want:   []Event{{Event: "heartbeat", Data: "null"}, {Event: "complete", Data: `["ok"]`}},
		},
		{
			name:   "multi line data with id",
			stream: "id: 7\ndata: line1\ndata: line2\n\n",
			want:   []Event{{ID: "7", Data: "line1\nline2"}},
		},
		{
			name:   "comments and crlf",
			stream: ": keepalive\r\ndata:no-space\r\n\r\n",
			want:   []Event{{Data: "no-space"}},
		},
		{
			name:   "event without data is dropped",
			stream: "event: ping\n\nevent: complete\ndata: 1\n\n",
			want:   []Event{{Event: "complete", Data: "1"}},
		},
		{
			name:   "trailing event without blank line",
			stream: "data: trailing",
			want:   []Event{{Data: "trailing"}},
		},
		{
			name:   "empty stream",
			stream: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readAll(t, tt.stream)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d events %+v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReaderLongLine(t *testing.T) {
	payload := strings.Repeat("a", 200*1024)
	got := readAll(t, "event: complete\ndata: "+payload+"\n\n")
	if len(got) != 1 || len(got[0].Data) != len(payload) {
		t.Fatalf("long data line not read intact")
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line, field, value string
	}{
		{"data: hello", "data", "hello"},
		{"data:hello", "data", "hello"},
		{"data:  two", "data", " two"},
		{"retry: 3000", "retry", "3000"},
		{"fieldonly", "fieldonly", ""},
	}
	for _, tt := range tests {
		f, v := parseLine(tt.line)
		if f != tt.field || v != tt.value {
			t.Errorf("parseLine(%q) = (%q, %q), want (%q, %q)", tt.line, f, v, tt.field, tt.value)
		}
	}
}

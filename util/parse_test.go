package util

import "testing"

func TestParseSize(t *testing.T) {
	const def = 7
	tests := []struct {
		in   string
		want int64
	}{
		{"20MB", 20 << 20},
		{"20mb", 20 << 20},
		{"512KB", 512 << 10},
		{"1GB", 1 << 30},
		{"2 MB", 2 << 20},
		{"  10MB ", 10 << 20},
		{"300B", 300},
		{"1024", 1024},
		{"", def},
		{"MB", def},
		{"ten MB", def},
		{"-5MB", def},
		{"1.5MB", def},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseSize(tt.in, def); got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

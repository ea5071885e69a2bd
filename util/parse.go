package util

import (
	"strconv"
	"strings"
)

// sizeUnits are checked in order, so "B" must come last.
var sizeUnits = []struct {
	suffix string
	factor int64
}{
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize converts a size such as "20MB" or "512KB" to bytes. Units are
// binary and case-insensitive; a bare number is taken as bytes. Input that
// does not parse, or is negative, yields def.
func ParseSize(s string, def int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, u := range sizeUnits {
		if num, ok := strings.CutSuffix(s, u.suffix); ok {
			return scaled(num, u.factor, def)
		}
	}
	return scaled(s, 1, def)
}

func scaled(num string, factor, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n * factor
}

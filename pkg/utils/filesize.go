package utils

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	B   int64 = 1
	KiB       = 1024 * B
	MiB       = 1024 * KiB
	GiB       = 1024 * MiB
	TiB       = 1024 * GiB

	KB int64 = 1000
	MB       = 1000 * KB
	GB       = 1000 * MB
	TB       = 1000 * GB
)

// FormatBytes converts bytes to human-readable decimal format
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "0 B"
	}

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// sizeUnits maps suffixes to multipliers. Binary suffixes come first so
// "GiB" is not consumed by the shorter decimal suffixes.
var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"TIB", TiB},
	{"GIB", GiB},
	{"MIB", MiB},
	{"KIB", KiB},
	{"TB", TB},
	{"GB", GB},
	{"MB", MB},
	{"KB", KB},
	{"B", B},
}

// ParseSize converts a human-readable size string to bytes. Decimal units
// (KB, MB, GB) use base 1000, binary units (KiB, MiB, GiB) base 1024, and
// a bare number is taken as bytes. Fractions like "1.5GB" are accepted.
func ParseSize(size string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(size))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	multiplier := B
	for _, unit := range sizeUnits {
		if strings.HasSuffix(s, unit.suffix) {
			multiplier = unit.multiplier
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			break
		}
	}

	if s == "" {
		return 0, fmt.Errorf("invalid size format: %q", size)
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %q", size)
	}
	if value < 0 {
		return 0, fmt.Errorf("size must not be negative: %q", size)
	}

	bytes := value * float64(multiplier)
	if bytes > float64(1<<62) {
		return 0, fmt.Errorf("size overflows: %q", size)
	}

	return int64(bytes), nil
}

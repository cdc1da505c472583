package util

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseSize parses a size string like "2G", "500M", "1.5GB" to bytes.
func ParseSize(sizeStr string) (int64, error) {
	sizeStr = strings.TrimSpace(strings.ToUpper(sizeStr))
	if sizeStr == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var numStr string
	var unit string
	for i, ch := range sizeStr {
		if ch >= '0' && ch <= '9' || ch == '.' {
			numStr += string(ch)
		} else {
			unit = sizeStr[i:]
			break
		}
	}

	if numStr == "" {
		return 0, fmt.Errorf("no numeric value found")
	}

	value, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	var multiplier int64
	switch unit {
	case "B", "":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	case "T", "TB":
		multiplier = 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown unit: %s (use B, K/KB, M/MB, G/GB, T/TB)", unit)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatFileSize renders a byte count the way catalog records store it:
// "1.40GB" above a gigabyte, "700.00MB" otherwise.
func FormatFileSize(n int64) string {
	const gb = 1024 * 1024 * 1024
	if n >= gb {
		return fmt.Sprintf("%.2fGB", float64(n)/float64(gb))
	}
	return fmt.Sprintf("%.2fMB", float64(n)/float64(1024*1024))
}

func SafeBase(name string) string {
	if name == "" {
		return "file"
	}
	return filepath.Base(name)
}

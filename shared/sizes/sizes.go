// Package sizes converts between human readable storage labels such as
// "22 MB" and byte counts. Units are binary (1 KB = 1024 bytes).
package sizes

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Units in ascending order. The literal tokens are part of the wire format.
var units = []string{"Bytes", "KB", "MB", "GB", "TB"}

var labelPattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s?(bytes|kb|mb|gb|tb)\s*$`)

// ParseSize returns the byte count denoted by label. Unrecognized or empty
// input yields 0, which callers treat as unknown.
func ParseSize(label string) int64 {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}

	exp := 0
	for i, u := range units {
		if strings.EqualFold(u, m[2]) {
			exp = i
			break
		}
	}

	return int64(math.Round(value * math.Pow(1024, float64(exp))))
}

// FormatSize renders bytes with the largest unit whose value is at least 1,
// rounded to two decimals.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	value := float64(bytes)
	exp := 0
	for value >= 1024 && exp < len(units)-1 {
		value /= 1024
		exp++
	}

	value = math.Round(value*100) / 100
	if value >= 1024 && exp < len(units)-1 {
		value = math.Round(value/1024*100) / 100
		exp++
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + units[exp]
}

package utils

import "time"

// NowISO returns the current UTC time in RFC3339 format
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseISO parses a time string in RFC3339 format
func ParseISO(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

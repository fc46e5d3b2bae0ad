// Package time contains time related helpers
package time

import "time"

// Stamp renders t as RFC 3339 in UTC, or "" for the zero time
func Stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Seconds returns whole seconds from since to now, never negative
func Seconds(since, now time.Time) int64 {
	if d := now.Sub(since); d > 0 {
		return int64(d / time.Second)
	}
	return 0
}

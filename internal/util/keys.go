package util

import "fmt"

// MemoKey builds the provider key for a digest: "<prefix>:<16 hex digits>".
// Fixed-width hex keeps keys uniform and prefix-scannable.
func MemoKey(prefix string, sum uint64) string {
	return fmt.Sprintf("%s:%016x", prefix, sum)
}

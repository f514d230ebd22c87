package utils

import "strings"

const maskedMiddle = "****"

// Mask keeps the first and last 4 characters of a sensitive value (merchant
// id, auth token, tid) for log correlation. Short values are fully masked.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedMiddle
	}
	return s[:4] + maskedMiddle + s[len(s)-4:]
}

// Truncate bounds gateway-supplied messages before they reach logs or the
// order row. The gateway has returned multi-kilobyte HTML error pages before.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max]) + "..."
}

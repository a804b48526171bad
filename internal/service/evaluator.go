package service

import "strings"

// EvaluateAnswer reports whether answer matches expected, ignoring
// surrounding whitespace and letter case.
func EvaluateAnswer(answer, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(expected))
}

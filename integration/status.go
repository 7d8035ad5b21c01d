package integration

import (
	"strings"
	"unicode/utf8"
)

// Scenario outcomes as reported by the Gherkin runner.
const (
	ScenarioPassed    = "PASSED"
	ScenarioFailed    = "FAILED"
	ScenarioSkipped   = "SKIPPED"
	ScenarioPending   = "PENDING"
	ScenarioUndefined = "UNDEFINED"
	ScenarioAmbiguous = "AMBIGUOUS"
)

// MaxErrorMessageLength caps error_message in test case payloads.
const MaxErrorMessageLength = 500

// MapStatus folds a runner outcome into passed, failed or skipped.
// Anything unknown counts as failed.
func MapStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case ScenarioPassed:
		return StatusPassed
	case ScenarioSkipped, ScenarioPending:
		return StatusSkipped
	default:
		return StatusFailed
	}
}

// Truncate shortens s to at most n characters.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

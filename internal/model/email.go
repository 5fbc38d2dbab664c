package model

import (
	"regexp"
	"strings"
)

// emailRegex is a conservative address pattern. It is stricter than what
// appears in the wild on purpose: a rejected address costs one contact,
// while an accepted garbage address pollutes the dataset permanently.
var emailRegex = regexp.MustCompile(`^[A-Za-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@([A-Za-z0-9-]+\.)+[A-Za-z]{2,}$`)

// redactionTokens mark obfuscated addresses like "user (at) example (dot) edu".
// These are published specifically so they will not be harvested, so we
// honor that and treat them as invalid.
var redactionTokens = []string{"(at)", "[at]", "(dot)", "[dot]"}

// ValidEmail reports whether the address is syntactically acceptable.
func ValidEmail(email string) bool {
	candidate := strings.TrimSpace(email)
	if candidate == "" {
		return false
	}
	lower := strings.ToLower(candidate)
	for _, token := range redactionTokens {
		if strings.Contains(lower, token) {
			return false
		}
	}
	return emailRegex.MatchString(candidate)
}

// NormalizeEmail returns the dedup comparison key for an address:
// whitespace trimmed and lower-cased. The original case is preserved in
// the stored record; only comparisons use this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package security keeps bot credentials out of logs and error messages.
package security

import (
	"crypto/subtle"
	"regexp"
	"slices"
	"strings"
)

// RedactPlaceholder is the replacement string for redacted secrets.
const RedactPlaceholder = "***REDACTED***"

var (
	// A token as issued by BotFather: <bot_id>:<35 char hash>.
	botTokenPattern = regexp.MustCompile(`\b\d{5,}:[A-Za-z0-9_-]{30,}`)
	// The /bot<token> segment of API and file URLs, whatever the token length.
	botPathPattern = regexp.MustCompile(`/bot\d+:[A-Za-z0-9_-]+`)
)

// Redactor replaces bot tokens and configured secrets with
// RedactPlaceholder. A Redactor is immutable and safe for concurrent use.
// The nil Redactor only masks token-shaped strings.
type Redactor struct {
	secrets []string
}

// NewRedactor returns a Redactor that also masks the given literal
// secrets, such as the configured token and webhook secret. Empty values
// are ignored.
func NewRedactor(secrets ...string) *Redactor {
	r := &Redactor{}
	for _, s := range secrets {
		if s != "" && !slices.Contains(r.secrets, s) {
			r.secrets = append(r.secrets, s)
		}
	}
	// Longest first so a secret containing another is replaced whole.
	slices.SortFunc(r.secrets, func(a, b string) int { return len(b) - len(a) })
	return r
}

// Redact returns s with every known secret masked.
func (r *Redactor) Redact(s string) string {
	if s == "" {
		return s
	}
	if r != nil {
		for _, secret := range r.secrets {
			s = strings.ReplaceAll(s, secret, RedactPlaceholder)
		}
	}
	s = botPathPattern.ReplaceAllString(s, RedactPlaceholder)
	return botTokenPattern.ReplaceAllString(s, RedactPlaceholder)
}

// SecretEqual compares a configured secret with a received one in
// constant time.
func SecretEqual(want, got string) bool {
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

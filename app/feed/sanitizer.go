package feed

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// Sanitizer turns feed HTML into plain display text.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// StripTags removes all markup, decodes entities and collapses whitespace.
func (s *Sanitizer) StripTags(raw string) string {
	text := html.UnescapeString(s.policy.Sanitize(raw))
	text = norm.NFC.String(text)
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts s to at most limit characters.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:limit]))
}

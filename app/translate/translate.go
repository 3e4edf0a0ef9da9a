// Package translate converts the chosen entry's title and summary into the
// configured language.
package translate

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/lysyi3m/daily-pick/app/metrics"
)

const (
	MaxTitleChars   = 200
	MaxSummaryChars = 1000
	MinASCIIRatio   = 0.7
)

// Backend performs a single text translation.
type Backend interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Adapter translates an entry's title and summary. It never returns an
// error: any backend failure yields the original text and translated=false.
type Adapter struct {
	backend  Backend
	language string
}

// NewAdapter returns an adapter for language. A nil backend disables translation.
func NewAdapter(backend Backend, language string) *Adapter {
	return &Adapter{
		backend:  backend,
		language: language,
	}
}

func (a *Adapter) Enabled() bool {
	return a != nil && a.backend != nil
}

func (a *Adapter) TranslateEntry(ctx context.Context, title, summary string) (string, string, bool) {
	if !a.Enabled() {
		return title, summary, false
	}

	translatedTitle, titleDone, err := a.translate(ctx, title, MaxTitleChars)
	if err != nil {
		a.fail(err)
		return title, summary, false
	}

	translatedSummary, summaryDone, err := a.translate(ctx, summary, MaxSummaryChars)
	if err != nil {
		a.fail(err)
		return title, summary, false
	}

	if !titleDone && !summaryDone {
		metrics.RecordTranslation("skipped")
		return title, summary, false
	}

	metrics.RecordTranslation("success")
	return translatedTitle, translatedSummary, true
}

func (a *Adapter) translate(ctx context.Context, text string, limit int) (string, bool, error) {
	if !IsLikelyEnglish(text) {
		return text, false, nil
	}

	input := text
	if utf8.RuneCountInString(input) > limit {
		input = string([]rune(input)[:limit]) + "..."
	}

	translated, err := a.backend.Translate(ctx, input, a.language)
	if err != nil {
		return "", false, err
	}
	if translated == "" {
		return text, false, nil
	}
	return translated, true, nil
}

func (a *Adapter) fail(err error) {
	metrics.RecordTranslation("failed")
	slog.Warn("Translation failed, keeping original text", "language", a.language, "error", err)
}

// IsLikelyEnglish reports whether at least 70% of the characters in text are ASCII.
func IsLikelyEnglish(text string) bool {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return false
	}

	ascii := 0
	for _, r := range text {
		if r < utf8.RuneSelf {
			ascii++
		}
	}
	return float64(ascii)/float64(total) >= MinASCIIRatio
}

// Package quality scores feed entries by apparent richness and topical relevance.
package quality

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lysyi3m/daily-pick/app/feed"
)

// Keywords is the topical vocabulary matched against title and summary.
var Keywords = []string{
	"architecture", "serverless", "lambda", "api", "gateway",
	"cloudformation", "terraform", "automation", "monitoring", "security",
	"performance", "optimization", "cost", "scaling", "deployment",
	"devops", "ci/cd", "container", "kubernetes", "docker",
	"microservices", "database", "analytics", "machine learning", "ai",
	"data", "storage", "backup", "disaster recovery", "compliance",
	"governance", "best practices", "tutorial", "guide", "how-to",
	"implementation", "integration",
}

// Indicators are title phrases that earn the title bonus.
var Indicators = []string{
	"how to", "tutorial", "guide", "best practices", "tips",
	"optimization", "performance", "security", "automation",
	"implementation", "deep dive", "introduction", "getting started",
}

// Score returns the additive quality score of entry rounded to two decimals.
func Score(entry feed.Entry) float64 {
	lower := cases.Lower(language.Und)
	title := lower.String(entry.Title)
	text := title + " " + lower.String(entry.Summary)

	score := titleScore(utf8.RuneCountInString(entry.Title)) +
		summaryScore(utf8.RuneCountInString(entry.Summary)) +
		tagScore(len(entry.Tags)) +
		keywordScore(countKeywords(text))

	if containsAny(title, Indicators) {
		score += 0.5
	}

	return math.Round(score*100) / 100
}

// FilterByQuality scores every entry in place and returns those scoring at
// least minScore, highest first. Equal scores keep their input order.
func FilterByQuality(entries []feed.Entry, minScore float64) []feed.Entry {
	qualified := make([]feed.Entry, 0, len(entries))
	for i := range entries {
		score := Score(entries[i])
		entries[i].QualityScore = &score
		if score >= minScore {
			qualified = append(qualified, entries[i])
		}
	}

	SortByScore(qualified)
	return qualified
}

// SortByScore orders scored entries by descending score, keeping the input
// order of ties.
func SortByScore(entries []feed.Entry) {
	slices.SortStableFunc(entries, func(a, b feed.Entry) int {
		sa, sb := scoreOf(a), scoreOf(b)
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return 0
	})
}

func scoreOf(entry feed.Entry) float64 {
	if entry.QualityScore == nil {
		return 0
	}
	return *entry.QualityScore
}

func titleScore(length int) float64 {
	switch {
	case length >= 20 && length <= 100:
		return 1.0
	case length >= 10 && length < 20, length > 100 && length <= 150:
		return 0.5
	}
	return 0
}

func summaryScore(length int) float64 {
	switch {
	case length >= 100:
		return 1.5
	case length >= 50:
		return 1.0
	case length >= 20:
		return 0.5
	}
	return 0
}

func tagScore(count int) float64 {
	switch {
	case count >= 3:
		return 0.5
	case count >= 1:
		return 0.25
	}
	return 0
}

func keywordScore(matches int) float64 {
	switch {
	case matches >= 3:
		return 1.0
	case matches == 2:
		return 0.7
	case matches == 1:
		return 0.4
	}
	return 0
}

func countKeywords(text string) int {
	count := 0
	for _, keyword := range Keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

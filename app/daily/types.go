package daily

import (
	"context"
	"time"

	"github.com/lysyi3m/daily-pick/app/feed"
	"github.com/lysyi3m/daily-pick/app/selection"
	"github.com/lysyi3m/daily-pick/app/translate"
)

type Pick struct {
	Title             string     `json:"title"`
	Link              string     `json:"link"`
	Summary           string     `json:"summary"`
	Excerpt           string     `json:"excerpt,omitempty"`
	Author            string     `json:"author"`
	Category          string     `json:"category"`
	PublishedReadable string     `json:"published_readable"`
	Published         string     `json:"published"`
	PublishedAt       *time.Time `json:"published_at"`
	QualityScore      float64    `json:"quality_score"`
	Tags              []string   `json:"tags"`
	Translated        bool       `json:"translated"`
}

type CacheInfo struct {
	Cached             bool      `json:"cached"`
	CacheDate          string    `json:"cache_date"`
	GeneratedAt        time.Time `json:"generated_at"`
	TranslationEnabled bool      `json:"translation_enabled"`
}

type Response struct {
	Success           bool               `json:"success"`
	DailyPick         *Pick              `json:"daily_pick"`
	SelectionMetadata selection.Metadata `json:"selection_metadata"`
	CacheInfo         CacheInfo          `json:"cache_info"`
	Message           string             `json:"message,omitempty"`
	Suggestion        string             `json:"suggestion,omitempty"`
}

type EntryCollector interface {
	CollectRecent(ctx context.Context, lookbackDays int) map[string][]feed.Entry
}

type Selector interface {
	Select(entries map[string][]feed.Entry, day time.Time) selection.Result
	SelectExtended(entries map[string][]feed.Entry, day time.Time) selection.Result
}

type Translator interface {
	TranslateEntry(ctx context.Context, title, summary string) (string, string, bool)
}

type Extractor interface {
	Run(ctx context.Context, link string) (string, error)
}

var (
	_ EntryCollector = (*feed.Collector)(nil)
	_ Selector       = (*selection.Engine)(nil)
	_ Translator     = (*translate.Adapter)(nil)
	_ Extractor      = (*feed.ContentExtractor)(nil)
)

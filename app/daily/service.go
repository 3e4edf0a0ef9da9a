// Package daily builds the pick-of-the-day response on top of ingestion,
// selection and the result cache.
package daily

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/lysyi3m/daily-pick/app/cache"
	"github.com/lysyi3m/daily-pick/app/feed"
	"github.com/lysyi3m/daily-pick/app/metrics"
	"github.com/lysyi3m/daily-pick/app/selection"
)

const (
	DefaultLookbackDays         = 14
	DefaultExtendedLookbackDays = 30

	noPickMessage    = "There is no pick to recommend today."
	noPickSuggestion = "Check back tomorrow when new posts have been published."

	abandonedMessage    = "The request ended before a pick was selected."
	abandonedSuggestion = "Retry the request."
)

// Service computes and caches the pick of the day.
type Service struct {
	collector            EntryCollector
	selector             Selector
	cache                *cache.Cache[Response]
	translator           Translator
	extractor            Extractor
	lookbackDays         int
	extendedLookbackDays int
	now                  func() time.Time
}

// NewService wires the daily pick flow. translator and extractor may be nil.
func NewService(collector EntryCollector, selector Selector, results *cache.Cache[Response],
	translator Translator, extractor Extractor, lookbackDays, extendedLookbackDays int) *Service {
	return &Service{
		collector:            collector,
		selector:             selector,
		cache:                results,
		translator:           translator,
		extractor:            extractor,
		lookbackDays:         lookbackDays,
		extendedLookbackDays: extendedLookbackDays,
		now:                  time.Now,
	}
}

// Today returns the pick for the current local date, computing and caching
// it on first request.
func (s *Service) Today(ctx context.Context, translate bool) Response {
	day := s.now().In(time.Local)
	date := day.Format(selection.DateLayout)
	key := cache.Key(date, translate)

	if cached, ok := s.cache.Get(key); ok {
		metrics.RecordCacheHit()
		slog.Debug("Returning cached pick", "key", key)
		cached.SelectionMetadata = cached.SelectionMetadata.Clone()
		cached.CacheInfo.Cached = true
		return cached
	}
	metrics.RecordCacheMiss()

	slog.Info("Computing daily pick", "date", date, "translate", translate)

	if removed := s.cache.ClearStale(date); removed > 0 {
		slog.Debug("Stale cache entries removed", "count", removed)
	}

	entries := s.collector.CollectRecent(ctx, s.lookbackDays)
	if err := ctx.Err(); err != nil {
		return s.abandoned(date, translate, err)
	}
	result := s.selector.Select(entries, day)

	if result.Entry == nil {
		slog.Info("Nothing selected, widening lookback window", "days", s.extendedLookbackDays)
		entries = s.collector.CollectRecent(ctx, s.extendedLookbackDays)
		if err := ctx.Err(); err != nil {
			return s.abandoned(date, translate, err)
		}
		result = s.selector.SelectExtended(entries, day)
		if result.Entry != nil {
			result.Metadata.ExtendedSearch = true
		}
	}

	metrics.RecordSelection(string(result.Tier))

	response := Response{
		SelectionMetadata: result.Metadata,
		CacheInfo: CacheInfo{
			CacheDate:          date,
			GeneratedAt:        s.now(),
			TranslationEnabled: translate,
		},
	}

	if result.Entry == nil {
		slog.Warn("No daily pick available", "date", date, "reason", result.Metadata.Error)
		response.Message = noPickMessage
		response.Suggestion = noPickSuggestion
	} else {
		response.Success = true
		response.DailyPick = s.buildPick(ctx, *result.Entry, result.Metadata.SelectedCategory, translate)
	}

	s.cache.Set(key, response)

	return response
}

// abandoned reports a computation cut short by the caller's context. The
// response is not cached, so the next request computes the day afresh.
func (s *Service) abandoned(date string, translate bool, err error) Response {
	slog.Warn("Daily pick computation abandoned", "date", date, "error", err)
	return Response{
		Message:    abandonedMessage,
		Suggestion: abandonedSuggestion,
		CacheInfo: CacheInfo{
			CacheDate:          date,
			GeneratedAt:        s.now(),
			TranslationEnabled: translate,
		},
	}
}

func (s *Service) buildPick(ctx context.Context, entry feed.Entry, category string, translate bool) *Pick {
	pick := &Pick{
		Title:             entry.Title,
		Link:              entry.Link,
		Summary:           entry.Summary,
		Author:            entry.Author,
		Category:          category,
		PublishedReadable: entry.PublishedReadable,
		Published:         entry.PublishedRaw,
		PublishedAt:       entry.PublishedAt,
		Tags:              slices.Clone(entry.Tags),
	}
	if entry.QualityScore != nil {
		pick.QualityScore = *entry.QualityScore
	}

	if s.extractor != nil {
		excerpt, err := s.extractor.Run(ctx, entry.Link)
		if err != nil {
			slog.Warn("Failed to extract article content", "link", entry.Link, "error", err)
		} else {
			pick.Excerpt = excerpt
		}
	}

	if translate && s.translator != nil {
		pick.Title, pick.Summary, pick.Translated = s.translator.TranslateEntry(ctx, entry.Title, entry.Summary)
	}

	return pick
}

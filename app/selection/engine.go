// Package selection picks the entry of the day with a tiered, seeded policy.
package selection

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/lysyi3m/daily-pick/app/feed"
	"github.com/lysyi3m/daily-pick/app/quality"
)

const (
	DefaultMinQuality         = 1.5
	DefaultExtendedMinQuality = 1.0
)

// Engine applies the tiered selection policy to ingested entries.
type Engine struct {
	registry           Registry
	minQuality         float64
	extendedMinQuality float64
}

// NewEngine creates an engine that reads priorities from registry and
// filters entries at minQuality, or extendedMinQuality in the relaxed tier.
func NewEngine(registry Registry, minQuality, extendedMinQuality float64) *Engine {
	return &Engine{
		registry:           registry,
		minQuality:         minQuality,
		extendedMinQuality: extendedMinQuality,
	}
}

// Select runs the weekday-priority tier and then the global backup tier for
// day. The result carries an error when neither tier finds a candidate.
func (e *Engine) Select(entries map[string][]feed.Entry, day time.Time) Result {
	result := e.selectStandard(entries, day)
	if result.Entry == nil {
		result.Metadata.SelectionReason = "selection failed - " + ErrNoCandidate
		result.Metadata.Error = ErrNoCandidate
		result.Tier = TierNone
	}
	e.record(result)
	return result
}

// SelectExtended runs the standard tiers and, when they find nothing, pools
// every category at the relaxed quality threshold.
func (e *Engine) SelectExtended(entries map[string][]feed.Entry, day time.Time) Result {
	result := e.selectStandard(entries, day)
	if result.Entry != nil {
		e.record(result)
		return result
	}

	meta := result.Metadata
	meta.BackupUsed = true
	meta.ExtendedSearch = true

	slog.Info("Standard tiers found nothing, relaxing quality", "date", meta.Date, "min_quality", e.extendedMinQuality)

	pool := e.pool(entries, e.extendedMinQuality)
	if len(pool) == 0 {
		slog.Warn("No entry qualified in extended search", "date", meta.Date)
		meta.SelectionReason = "selection failed - " + ErrNoCandidate
		meta.CandidateCount = 0
		meta.Error = ErrNoCandidate
		result = Result{Metadata: meta, Tier: TierNone}
		e.record(result)
		return result
	}

	chosen := choose(pool, meta.Date)
	meta.SelectedCategory = chosen.SourceCategory
	meta.CategoryName = e.registry.DisplayName(chosen.SourceCategory)
	meta.SelectionReason = fmt.Sprintf("extended search with relaxed quality - %s (%s)", meta.CategoryName, meta.SelectedCategory)
	meta.CandidateCount = len(pool)

	result = Result{Entry: &chosen, Metadata: meta, Tier: TierExtended}
	e.record(result)
	return result
}

func (e *Engine) selectStandard(entries map[string][]feed.Entry, day time.Time) Result {
	weekday := (int(day.Weekday()) + 6) % 7
	meta := Metadata{
		Date:                 day.Format(DateLayout),
		Weekday:              weekday,
		WeekdayName:          weekdayNames[weekday],
		PriorityCategories:   e.registry.Priority(weekday),
		QualityFilterApplied: true,
	}

	for _, category := range meta.PriorityCategories {
		candidates := entries[category]
		if len(candidates) == 0 {
			continue
		}

		qualified := quality.FilterByQuality(candidates, e.minQuality)
		slog.Debug("Priority category checked", "category", category, "candidates", len(candidates), "qualified", len(qualified))
		if len(qualified) == 0 {
			continue
		}

		chosen := choose(qualified, meta.Date)
		meta.SelectedCategory = category
		meta.CategoryName = e.registry.DisplayName(category)
		meta.SelectionReason = fmt.Sprintf("weekday priority (%s) - %s (%s)", meta.WeekdayName, meta.CategoryName, category)
		meta.CandidateCount = len(qualified)

		return Result{Entry: &chosen, Metadata: meta, Tier: TierPriority}
	}

	meta.BackupUsed = true

	pool := e.pool(entries, e.minQuality)
	if len(pool) == 0 {
		return Result{Metadata: meta}
	}

	chosen := choose(pool, meta.Date)
	meta.SelectedCategory = chosen.SourceCategory
	meta.CategoryName = e.registry.DisplayName(chosen.SourceCategory)
	meta.SelectionReason = fmt.Sprintf("backup selection across all categories - %s (%s)", meta.CategoryName, meta.SelectedCategory)
	meta.CandidateCount = len(pool)

	return Result{Entry: &chosen, Metadata: meta, Tier: TierBackup}
}

// pool filters every category at minScore, tags survivors with their
// category and orders the union by score. Categories are visited in registry
// order so ties resolve the same way on every run.
func (e *Engine) pool(entries map[string][]feed.Entry, minScore float64) []feed.Entry {
	var pooled []feed.Entry
	for _, category := range e.categories(entries) {
		qualified := quality.FilterByQuality(entries[category], minScore)
		for i := range qualified {
			qualified[i].SourceCategory = category
		}
		pooled = append(pooled, qualified...)
	}
	quality.SortByScore(pooled)
	return pooled
}

// categories lists registry categories followed by any unregistered keys of
// entries, which can only appear when callers build the map themselves.
func (e *Engine) categories(entries map[string][]feed.Entry) []string {
	categories := e.registry.Categories()
	known := make(map[string]bool, len(categories))
	for _, category := range categories {
		known[category] = true
	}

	var extra []string
	for category := range entries {
		if !known[category] {
			extra = append(extra, category)
		}
	}
	slices.Sort(extra)

	return append(categories, extra...)
}

func (e *Engine) record(result Result) {
	if result.Entry != nil {
		slog.Info("Entry selected",
			"date", result.Metadata.Date,
			"tier", result.Tier,
			"category", result.Metadata.SelectedCategory,
			"candidates", result.Metadata.CandidateCount,
			"title", result.Entry.Title)
	}
}

func choose(candidates []feed.Entry, seed string) feed.Entry {
	return candidates[ChooseIndex(seed, len(candidates))]
}

package daily

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/daily-pick/app/cache"
	"github.com/lysyi3m/daily-pick/app/feed"
	"github.com/lysyi3m/daily-pick/app/selection"
)

type stubRegistry struct{}

func (stubRegistry) Categories() []string          { return []string{"devops", "korea"} }
func (stubRegistry) Priority(weekday int) []string { return []string{"korea"} }
func (stubRegistry) DisplayName(c string) string   { return c }

type fakeCollector struct {
	byDays map[int]map[string][]feed.Entry
	calls  []int
}

func (f *fakeCollector) CollectRecent(ctx context.Context, lookbackDays int) map[string][]feed.Entry {
	f.calls = append(f.calls, lookbackDays)
	if ctx.Err() != nil {
		return map[string][]feed.Entry{"devops": {}, "korea": {}}
	}
	if entries, ok := f.byDays[lookbackDays]; ok {
		return entries
	}
	return map[string][]feed.Entry{"devops": {}, "korea": {}}
}

type fakeTranslator struct {
	calls int
}

func (f *fakeTranslator) TranslateEntry(ctx context.Context, title, summary string) (string, string, bool) {
	f.calls++
	return "번역: " + title, "번역: " + summary, true
}

type fakeExtractor struct {
	excerpt string
	err     error
}

func (f *fakeExtractor) Run(ctx context.Context, link string) (string, error) {
	return f.excerpt, f.err
}

var testNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.Local)

// goodEntry scores 3.7.
func goodEntry() feed.Entry {
	published := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	return feed.Entry{
		Title:             "Running Kubernetes clusters for Seoul shoppers on every week",
		Link:              "https://example.com/seoul",
		Summary:           "Engineers in Seoul describe how the shopping platform moved onto Kubernetes with Docker images built on every merge now.",
		Author:            "Jane Kim",
		Tags:              []string{"containers", "retail", "korea"},
		PublishedAt:       &published,
		PublishedRaw:      "Sun, 01 Jun 2025 08:30:00 +0000",
		PublishedReadable: "Jun 1, 2025 08:30",
	}
}

// weakEntry scores 1.25.
func weakEntry() feed.Entry {
	return feed.Entry{Title: "Weekly roundup of news", Link: "https://example.com/weekly", Summary: "tiny", Tags: []string{"news"}}
}

func newTestService(collector *fakeCollector, translator Translator, extractor Extractor) (*Service, *cache.Cache[Response]) {
	results := cache.New[Response]()
	engine := selection.NewEngine(stubRegistry{}, selection.DefaultMinQuality, selection.DefaultExtendedMinQuality)
	service := NewService(collector, engine, results, translator, extractor, DefaultLookbackDays, DefaultExtendedLookbackDays)
	service.now = func() time.Time { return testNow }
	return service, results
}

func TestTodayComputesAndCaches(t *testing.T) {
	collector := &fakeCollector{byDays: map[int]map[string][]feed.Entry{
		14: {"korea": {goodEntry()}, "devops": {}},
	}}
	service, results := newTestService(collector, nil, nil)

	first := service.Today(context.Background(), false)

	require.True(t, first.Success)
	require.NotNil(t, first.DailyPick)
	assert.Equal(t, "https://example.com/seoul", first.DailyPick.Link)
	assert.Equal(t, "korea", first.DailyPick.Category)
	assert.Equal(t, 3.7, first.DailyPick.QualityScore)
	assert.Equal(t, "Jane Kim", first.DailyPick.Author)
	assert.Equal(t, "Jun 1, 2025 08:30", first.DailyPick.PublishedReadable)
	assert.False(t, first.DailyPick.Translated)
	assert.False(t, first.CacheInfo.Cached)
	assert.Equal(t, "2025-06-02", first.CacheInfo.CacheDate)
	assert.False(t, first.SelectionMetadata.ExtendedSearch)
	assert.Equal(t, []int{14}, collector.calls)

	second := service.Today(context.Background(), false)

	assert.True(t, second.CacheInfo.Cached)
	assert.Equal(t, first.DailyPick.Link, second.DailyPick.Link)
	assert.Equal(t, first.SelectionMetadata.SelectionReason, second.SelectionMetadata.SelectionReason)
	assert.Equal(t, []int{14}, collector.calls)

	stored, ok := results.Get("2025-06-02")
	require.True(t, ok)
	assert.False(t, stored.CacheInfo.Cached)
}

func TestTodayWidensLookbackWindow(t *testing.T) {
	collector := &fakeCollector{byDays: map[int]map[string][]feed.Entry{
		14: {"korea": {}, "devops": {}},
		30: {"korea": {weakEntry()}, "devops": {}},
	}}
	service, _ := newTestService(collector, nil, nil)

	response := service.Today(context.Background(), false)

	require.True(t, response.Success)
	assert.Equal(t, "https://example.com/weekly", response.DailyPick.Link)
	assert.True(t, response.SelectionMetadata.ExtendedSearch)
	assert.True(t, response.SelectionMetadata.BackupUsed)
	assert.Equal(t, []int{14, 30}, collector.calls)
}

func TestTodayWidenedWindowWithQualifyingEntry(t *testing.T) {
	collector := &fakeCollector{byDays: map[int]map[string][]feed.Entry{
		30: {"korea": {goodEntry()}, "devops": {}},
	}}
	service, _ := newTestService(collector, nil, nil)

	response := service.Today(context.Background(), false)

	require.True(t, response.Success)
	assert.True(t, response.SelectionMetadata.ExtendedSearch)
	assert.False(t, response.SelectionMetadata.BackupUsed)
}

func TestTodayNoPick(t *testing.T) {
	low := feed.Entry{Title: "Notes", Link: "https://example.com/notes", Summary: "tiny"}
	collector := &fakeCollector{byDays: map[int]map[string][]feed.Entry{
		14: {"korea": {low}},
		30: {"korea": {low}},
	}}
	service, results := newTestService(collector, nil, nil)

	response := service.Today(context.Background(), false)

	assert.False(t, response.Success)
	assert.Nil(t, response.DailyPick)
	assert.Equal(t, noPickMessage, response.Message)
	assert.Equal(t, noPickSuggestion, response.Suggestion)
	assert.Equal(t, selection.ErrNoCandidate, response.SelectionMetadata.Error)
	assert.Equal(t, "Monday", response.SelectionMetadata.WeekdayName)
	assert.Equal(t, 1, results.Len())
}

func TestTodayTranslatedVariant(t *testing.T) {
	collector := &fakeCollector{byDays: map[int]map[string][]feed.Entry{
		14: {"korea": {goodEntry()}},
	}}
	translator := &fakeTranslator{}
	service, results := newTestService(collector, translator, nil)

	plain := service.Today(context.Background(), false)
	translated := service.Today(context.Background(), true)

	require.True(t, translated.Success)
	assert.True(t, translated.DailyPick.Translated)
	assert.Equal(t, "번역: "+plain.DailyPick.Title, translated.DailyPick.Title)
	assert.True(t, translated.CacheInfo.TranslationEnabled)
	assert.False(t, translated.CacheInfo.Cached)
	assert.Equal(t, 1, translator.calls)

	again := service.Today(context.Background(), true)
	assert.True(t, again.CacheInfo.Cached)
	assert.Equal(t, 1, translator.calls)

	assert.Equal(t, []string{"2025-06-02", "2025-06-02_translated"}, results.Keys())
	assert.False(t, plain.DailyPick.Translated)
}

func TestTodayClearsStaleEntries(t *testing.T) {
	collector := &fakeCollector{byDays: map[int]map[string][]feed.Entry{
		14: {"korea": {goodEntry()}},
	}}
	service, results := newTestService(collector, nil, nil)
	results.Set("2025-06-01", Response{Success: true})
	results.Set("2025-06-01_translated", Response{Success: true})

	service.Today(context.Background(), false)

	assert.Equal(t, []string{"2025-06-02"}, results.Keys())
}

func TestTodayAddsExcerpt(t *testing.T) {
	collector := &fakeCollector{byDays: map[int]map[string][]feed.Entry{
		14: {"korea": {goodEntry()}},
	}}

	service, _ := newTestService(collector, nil, &fakeExtractor{excerpt: "Full article text"})
	response := service.Today(context.Background(), false)
	require.True(t, response.Success)
	assert.Equal(t, "Full article text", response.DailyPick.Excerpt)

	service, _ = newTestService(collector, nil, &fakeExtractor{err: errors.New("timeout")})
	response = service.Today(context.Background(), false)
	require.True(t, response.Success)
	assert.Empty(t, response.DailyPick.Excerpt)
}

func TestTodayCancelledRequestIsNotCached(t *testing.T) {
	collector := &fakeCollector{byDays: map[int]map[string][]feed.Entry{
		14: {"korea": {goodEntry()}},
	}}
	service, results := newTestService(collector, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	abandoned := service.Today(ctx, false)

	assert.False(t, abandoned.Success)
	assert.Nil(t, abandoned.DailyPick)
	assert.Equal(t, abandonedMessage, abandoned.Message)
	assert.Empty(t, abandoned.SelectionMetadata.Error)
	assert.Equal(t, 0, results.Len())
	assert.Equal(t, []int{14}, collector.calls)

	live := service.Today(context.Background(), false)

	require.True(t, live.Success)
	assert.False(t, live.CacheInfo.Cached)
	assert.Equal(t, "https://example.com/seoul", live.DailyPick.Link)
	assert.Equal(t, []string{"2025-06-02"}, results.Keys())
}

func TestTodayCancelledDuringWidenedSearchIsNotCached(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := &cancellingCollector{cancel: cancel}
	results := cache.New[Response]()
	engine := selection.NewEngine(stubRegistry{}, selection.DefaultMinQuality, selection.DefaultExtendedMinQuality)
	service := NewService(collector, engine, results, nil, nil, DefaultLookbackDays, DefaultExtendedLookbackDays)
	service.now = func() time.Time { return testNow }

	response := service.Today(ctx, false)

	assert.False(t, response.Success)
	assert.Equal(t, abandonedMessage, response.Message)
	assert.Equal(t, 0, results.Len())
	assert.Equal(t, []int{14, 30}, collector.calls)
}

// cancellingCollector returns nothing and cancels the request once the
// widened window is requested.
type cancellingCollector struct {
	cancel context.CancelFunc
	calls  []int
}

func (c *cancellingCollector) CollectRecent(ctx context.Context, lookbackDays int) map[string][]feed.Entry {
	c.calls = append(c.calls, lookbackDays)
	if lookbackDays == DefaultExtendedLookbackDays {
		c.cancel()
	}
	return map[string][]feed.Entry{"devops": {}, "korea": {}}
}

package api

import (
	"context"
	"time"

	"github.com/lysyi3m/daily-pick/app/cache"
	"github.com/lysyi3m/daily-pick/app/daily"
	"github.com/lysyi3m/daily-pick/app/database"
	"github.com/lysyi3m/daily-pick/app/feed"
)

const (
	DefaultDaysBack = 7
	MaxDaysBack     = 90
)

type DailyProvider interface {
	Today(ctx context.Context, translate bool) daily.Response
}

type SourceCollector interface {
	CollectReports(ctx context.Context, lookbackDays int) []feed.SourceReport
	CollectSource(ctx context.Context, name string, lookbackDays int) (feed.SourceReport, error)
}

var (
	_ DailyProvider   = (*daily.Service)(nil)
	_ SourceCollector = (*feed.Collector)(nil)
)

type Handler struct {
	daily      DailyProvider
	collector  SourceCollector
	registry   *feed.Registry
	sourceRepo database.SourceRepository
	results    *cache.Cache[daily.Response]
	version    string
}

type SourceInfo struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SourcesResponse struct {
	Feeds      map[string]SourceInfo `json:"feeds"`
	TotalFeeds int                   `json:"total_feeds"`
}

type SourceResponse struct {
	FeedID      string       `json:"feed_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
	Entries     []feed.Entry `json:"entries"`
	EntryCount  int          `json:"entry_count"`
	DaysBack    int          `json:"days_back"`
	CollectedAt time.Time    `json:"collected_at"`
	Error       string       `json:"error,omitempty"`
	ErrorKind   string       `json:"error_kind,omitempty"`
}

type CollectionSummary struct {
	TotalFeeds      int       `json:"total_feeds"`
	SuccessfulFeeds int       `json:"successful_feeds"`
	FailedFeeds     int       `json:"failed_feeds"`
	TotalEntries    int       `json:"total_entries"`
	DaysBack        int       `json:"days_back"`
	CollectedAt     time.Time `json:"collected_at"`
}

type AllSourcesResponse struct {
	Results map[string]SourceResponse `json:"results"`
	Summary CollectionSummary         `json:"summary"`
}

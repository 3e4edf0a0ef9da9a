package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/daily-pick/app/cache"
	"github.com/lysyi3m/daily-pick/app/daily"
	"github.com/lysyi3m/daily-pick/app/database"
	"github.com/lysyi3m/daily-pick/app/feed"
)

// NewHandler creates a handler with the daily pick service and its supporting stores
func NewHandler(dailyProvider DailyProvider, collector SourceCollector, registry *feed.Registry,
	sourceRepo database.SourceRepository, results *cache.Cache[daily.Response], version string) *Handler {
	return &Handler{
		daily:      dailyProvider,
		collector:  collector,
		registry:   registry,
		sourceRepo: sourceRepo,
		results:    results,
		version:    version,
	}
}

// GetDailyPick serves the pick of the day, optionally translated
func (h *Handler) GetDailyPick(c *gin.Context) {
	translate, err := parseBoolQuery(c, "translate")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "translate must be a boolean"})
		return
	}

	c.JSON(http.StatusOK, h.daily.Today(c.Request.Context(), translate))
}

func (h *Handler) ListSources(c *gin.Context) {
	sources := h.registry.GetSources()

	feeds := make(map[string]SourceInfo, len(sources))
	for _, source := range sources {
		feeds[source.Name] = SourceInfo{
			URL:         source.URL,
			Name:        source.DisplayName,
			Description: source.Description,
		}
	}

	c.JSON(http.StatusOK, SourcesResponse{Feeds: feeds, TotalFeeds: len(feeds)})
}

func (h *Handler) CollectAll(c *gin.Context) {
	daysBack, ok := h.daysBack(c)
	if !ok {
		return
	}

	reports := h.collector.CollectReports(c.Request.Context(), daysBack)

	response := AllSourcesResponse{
		Results: make(map[string]SourceResponse, len(reports)),
		Summary: CollectionSummary{
			TotalFeeds:  len(reports),
			DaysBack:    daysBack,
			CollectedAt: time.Now().In(time.Local),
		},
	}

	for _, report := range reports {
		response.Results[report.Name] = h.sourceResponse(report, daysBack)
		if report.Err != nil {
			response.Summary.FailedFeeds++
			continue
		}
		response.Summary.SuccessfulFeeds++
		response.Summary.TotalEntries += len(report.Entries)
	}

	c.JSON(http.StatusOK, response)
}

// CollectSource fetches one category on demand
func (h *Handler) CollectSource(c *gin.Context) {
	name := c.Param("name")

	daysBack, ok := h.daysBack(c)
	if !ok {
		return
	}

	report, err := h.collector.CollectSource(c.Request.Context(), name, daysBack)
	if errors.Is(err, feed.ErrUnknownSource) {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not found", "feed": name})
		return
	}
	if err != nil {
		slog.Error("Source collection error", "category", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if report.Err != nil {
		c.JSON(http.StatusBadGateway, h.sourceResponse(report, daysBack))
		return
	}

	c.JSON(http.StatusOK, h.sourceResponse(report, daysBack))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"sources":   h.registry.GetSourceCount(),
	}

	if count, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["registered_sources"] = count
	} else {
		slog.Error("Database error", "operation", "get_source_count", "error", err)
		health["status"] = "degraded"
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListCacheKeys(c *gin.Context) {
	keys := h.results.Keys()
	c.JSON(http.StatusOK, gin.H{"keys": keys, "count": len(keys)})
}

func (h *Handler) APIDeleteCacheKey(c *gin.Context) {
	key := c.Param("key")
	if !h.results.Delete(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "cache key not found", "key": key})
		return
	}

	slog.Info("Cache entry deleted", "key", key)
	c.Status(http.StatusNoContent)
}

func (h *Handler) APIListSourceStatus(c *gin.Context) {
	sources, err := h.sourceRepo.GetSources()
	if err != nil {
		slog.Error("Database error", "operation", "get_sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	statuses := make([]map[string]any, 0, len(sources))
	for _, source := range sources {
		statuses = append(statuses, map[string]any{
			"name":            source.Name,
			"url":             source.URL,
			"display_name":    source.DisplayName,
			"title":           source.Title,
			"last_fetched_at": source.LastFetchedAt,
			"last_success_at": source.LastSuccessAt,
			"last_error":      source.LastError,
			"error_kind":      source.ErrorKind,
			"entry_count":     source.EntryCount,
			"fetch_count":     source.FetchCount,
			"failure_count":   source.FailureCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sources": statuses, "total": len(statuses)})
}

func (h *Handler) sourceResponse(report feed.SourceReport, daysBack int) SourceResponse {
	response := SourceResponse{
		FeedID:      report.Name,
		Entries:     report.Entries,
		EntryCount:  len(report.Entries),
		DaysBack:    daysBack,
		CollectedAt: report.FetchedAt,
	}

	if source, err := h.registry.GetSource(report.Name); err == nil {
		response.Name = source.DisplayName
		response.Description = source.Description
		response.URL = source.URL
	}

	if report.Err != nil {
		response.Error = report.Err.Error()
		response.ErrorKind = string(feed.KindOf(report.Err))
	}

	return response
}

func (h *Handler) daysBack(c *gin.Context) (int, bool) {
	raw := c.Query("days_back")
	if raw == "" {
		return DefaultDaysBack, true
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > MaxDaysBack {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days_back must be an integer between 1 and " + strconv.Itoa(MaxDaysBack)})
		return 0, false
	}

	return days, true
}

func parseBoolQuery(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

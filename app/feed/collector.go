package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lysyi3m/daily-pick/app/metrics"
)

// StatusRecorder persists the outcome of a source fetch.
type StatusRecorder interface {
	UpdateFetchStatus(name, title string, fetchedAt time.Time, entryCount int, fetchErr error) error
}

type Collector struct {
	registry    *Registry
	fetcher     *Fetcher
	parser      *Parser
	normalizer  *Normalizer
	status      StatusRecorder
	concurrency int
}

// NewCollector wires the ingestion pipeline. concurrency <= 0 fetches every
// source at once. status may be nil.
func NewCollector(registry *Registry, fetcher *Fetcher, parser *Parser, normalizer *Normalizer, status StatusRecorder, concurrency int) *Collector {
	return &Collector{
		registry:    registry,
		fetcher:     fetcher,
		parser:      parser,
		normalizer:  normalizer,
		status:      status,
		concurrency: concurrency,
	}
}

// CollectRecent ingests every enabled source concurrently. Every source gets a
// key in the result; failed sources map to an empty slice.
func (c *Collector) CollectRecent(ctx context.Context, lookbackDays int) map[string][]Entry {
	reports := c.CollectReports(ctx, lookbackDays)

	result := make(map[string][]Entry, len(reports))
	total := 0
	for _, report := range reports {
		result[report.Name] = report.Entries
		total += len(report.Entries)
	}

	slog.Info("Collection completed",
		"sources", len(reports),
		"entries", total,
		"lookback_days", lookbackDays)

	return result
}

// CollectReports ingests every enabled source concurrently and returns one
// report per source in registry order. Each goroutine writes only its own
// slot, so cancelled fetches leave the other reports intact.
func (c *Collector) CollectReports(ctx context.Context, lookbackDays int) []SourceReport {
	sources := c.registry.GetSources()
	reports := make([]SourceReport, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}

	for i, source := range sources {
		g.Go(func() error {
			reports[i] = c.ingest(gctx, source, lookbackDays)
			return nil
		})
	}
	_ = g.Wait()

	for _, report := range reports {
		c.recordStatus(report)
	}

	return reports
}

// CollectSource ingests a single source. The report error carries the
// ingestion failure, if any.
func (c *Collector) CollectSource(ctx context.Context, name string, lookbackDays int) (SourceReport, error) {
	source, err := c.registry.GetSource(name)
	if err != nil {
		return SourceReport{}, err
	}

	report := c.ingest(ctx, source, lookbackDays)
	c.recordStatus(report)

	return report, nil
}

func (c *Collector) ingest(ctx context.Context, source *Source, lookbackDays int) (report SourceReport) {
	report = SourceReport{
		Name:      source.Name,
		Entries:   []Entry{},
		FetchedAt: time.Now().UTC(),
	}

	start := time.Now()
	defer func() {
		report.Duration = time.Since(start)
	}()

	data, err := c.fetcher.Fetch(ctx, source.Name, source.URL, time.Duration(source.Settings.Timeout)*time.Second)
	if err != nil {
		report.Err = err
		c.logFailure(report, time.Since(start))
		return report
	}

	metadata, raw, err := c.parser.Run(data)
	if err != nil {
		report.Err = &IngestError{Kind: KindParse, Source: source.Name, Err: err}
		c.logFailure(report, time.Since(start))
		return report
	}

	report.Title = metadata.Title
	report.Entries = c.normalizer.Run(source.Name, raw, lookbackDays, source.Settings.MaxItems)

	metrics.RecordFetch(source.Name, "success", len(report.Entries), time.Since(start).Seconds())

	slog.Debug("Source collected",
		"category", source.Name,
		"raw", len(raw),
		"kept", len(report.Entries),
		"duration", time.Since(start))

	return report
}

func (c *Collector) logFailure(report SourceReport, duration time.Duration) {
	kind := KindOf(report.Err)
	metrics.RecordFetch(report.Name, string(kind), 0, duration.Seconds())
	slog.Warn("Source collection failed", "category", report.Name, "kind", kind, "error", report.Err)
}

func (c *Collector) recordStatus(report SourceReport) {
	if c.status == nil {
		return
	}
	if err := c.status.UpdateFetchStatus(report.Name, report.Title, report.FetchedAt, len(report.Entries), report.Err); err != nil {
		slog.Error("Failed to record fetch status", "category", report.Name, "error", fmt.Errorf("failed to update status: %w", err))
	}
}

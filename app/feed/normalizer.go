package feed

import (
	"errors"
	"log/slog"
	"time"
)

const (
	MaxSummaryLength = 500

	UntitledEntry  = "untitled"
	UnknownAuthor  = "unknown"
	UnknownDate    = "unknown date"
	readableLayout = "Jan 2, 2006 15:04"
)

var errMissingLink = errors.New("entry has no link")

// Layouts tried for dates the feed library could not parse. Layouts without a
// zone yield UTC.
var timestampLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type Normalizer struct {
	sanitizer *Sanitizer
	location  *time.Location
	now       func() time.Time
}

// NewNormalizer returns a Normalizer that renders readable dates in loc.
func NewNormalizer(sanitizer *Sanitizer, loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{
		sanitizer: sanitizer,
		location:  loc,
		now:       time.Now,
	}
}

// Run converts raw entries into entries published within lookbackDays.
// At most maxItems raw entries are considered. Entries without a resolvable
// date are kept. Malformed entries are skipped.
func (n *Normalizer) Run(source string, raw []RawEntry, lookbackDays, maxItems int) []Entry {
	if maxItems > 0 && len(raw) > maxItems {
		raw = raw[:maxItems]
	}

	cutoff := n.now().UTC().AddDate(0, 0, -lookbackDays)

	entries := make([]Entry, 0, len(raw))
	for i, rawEntry := range raw {
		entry, err := n.normalizeEntry(rawEntry)
		if err != nil {
			slog.Debug("Entry skipped", "category", source, "index", i, "kind", KindParse, "error", err)
			continue
		}

		if entry.PublishedAt != nil && entry.PublishedAt.Before(cutoff) {
			continue
		}

		entries = append(entries, entry)
	}

	return entries
}

func (n *Normalizer) normalizeEntry(raw RawEntry) (Entry, error) {
	if raw.Link == "" {
		return Entry{}, errMissingLink
	}

	entry := Entry{
		Title:             UntitledEntry,
		Link:              raw.Link,
		Summary:           Truncate(n.sanitizer.StripTags(raw.Summary), MaxSummaryLength),
		PublishedReadable: UnknownDate,
		Author:            UnknownAuthor,
		Tags:              []string{},
	}

	if raw.HasTitle() {
		entry.Title = n.sanitizer.StripTags(raw.Title)
	}
	if raw.HasAuthor() {
		entry.Author = *raw.Author
	}
	if raw.HasTags() {
		entry.Tags = append(entry.Tags, raw.Tags...)
	}

	if ts := raw.Timestamp(); ts != nil {
		entry.PublishedRaw = ts.Raw
		if published, ok := resolveTimestamp(ts); ok {
			entry.PublishedAt = &published
			entry.PublishedReadable = published.In(n.location).Format(readableLayout)
		}
	}

	return entry, nil
}

func resolveTimestamp(ts *RawTimestamp) (time.Time, bool) {
	if ts.Parsed != nil {
		return ts.Parsed.UTC(), true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts.Raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

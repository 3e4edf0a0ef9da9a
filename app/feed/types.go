package feed

import (
	"time"
)

// Source registry types

type Source struct {
	Name        string         `yaml:"-"` // Derived from filename (without .yml extension)
	URL         string         `yaml:"url"`
	DisplayName string         `yaml:"name"`
	Description string         `yaml:"description"`
	Settings    SourceSettings `yaml:"settings"`
}

type SourceSettings struct {
	Enabled  bool `yaml:"enabled"`
	MaxItems int  `yaml:"max_items"` // entries processed per fetch
	Timeout  int  `yaml:"timeout"`   // seconds
}

type rawPriorities struct {
	Default  []string            `yaml:"default"`
	Weekdays map[string][]string `yaml:"weekdays"`
}

// Feed processing types

type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
}

// RawTimestamp is a date as it appeared in the feed. Parsed is nil when the
// feed library could not interpret Raw.
type RawTimestamp struct {
	Raw    string
	Parsed *time.Time
}

// RawEntry is a parsed feed item before normalization. Optional fields are
// nil or empty when the feed omitted them.
type RawEntry struct {
	Title     string
	Link      string
	Summary   string
	Published *RawTimestamp
	Updated   *RawTimestamp
	Author    *string
	Tags      []string
}

func (e RawEntry) HasTitle() bool {
	return e.Title != ""
}

func (e RawEntry) HasAuthor() bool {
	return e.Author != nil && *e.Author != ""
}

func (e RawEntry) HasTags() bool {
	return len(e.Tags) > 0
}

func (e RawEntry) HasTimestamp() bool {
	return e.Timestamp() != nil
}

// Timestamp returns the published date, falling back to the updated date.
func (e RawEntry) Timestamp() *RawTimestamp {
	if e.Published != nil && (e.Published.Parsed != nil || e.Published.Raw != "") {
		return e.Published
	}
	if e.Updated != nil && (e.Updated.Parsed != nil || e.Updated.Raw != "") {
		return e.Updated
	}
	return nil
}

type Entry struct {
	Title             string     `json:"title"`
	Link              string     `json:"link"`
	Summary           string     `json:"summary"`
	PublishedAt       *time.Time `json:"published_at"`
	PublishedRaw      string     `json:"published"`
	PublishedReadable string     `json:"published_readable"`
	Author            string     `json:"author"`
	Tags              []string   `json:"tags"`
	QualityScore      *float64   `json:"quality_score,omitempty"`
	SourceCategory    string     `json:"source_category,omitempty"` // set only when pooled across categories
}

// SourceReport is the outcome of ingesting one source.
type SourceReport struct {
	Name      string
	Title     string
	Entries   []Entry
	FetchedAt time.Time
	Duration  time.Duration
	Err       error
}

package selection

import (
	"slices"

	"github.com/lysyi3m/daily-pick/app/feed"
)

// DateLayout is the calendar-date format used for seeds and cache keys.
const DateLayout = "2006-01-02"

const ErrNoCandidate = "no suitable entry found"

// Tier names the policy stage that produced a result.
type Tier string

const (
	TierPriority Tier = "priority"
	TierBackup   Tier = "backup"
	TierExtended Tier = "extended"
	TierNone     Tier = "none"
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Registry is the view of the source registry the engine needs.
type Registry interface {
	Categories() []string
	Priority(weekday int) []string
	DisplayName(category string) string
}

var _ Registry = (*feed.Registry)(nil)

type Metadata struct {
	Date                 string   `json:"date"`
	Weekday              int      `json:"weekday"`
	WeekdayName          string   `json:"weekday_name"`
	PriorityCategories   []string `json:"priority_categories"`
	SelectionReason      string   `json:"selection_reason"`
	BackupUsed           bool     `json:"backup_used"`
	CandidateCount       int      `json:"candidate_count"`
	QualityFilterApplied bool     `json:"quality_filter_applied"`
	SelectedCategory     string   `json:"selected_category,omitempty"`
	CategoryName         string   `json:"category_name,omitempty"`
	ExtendedSearch       bool     `json:"extended_search"`
	Error                string   `json:"error,omitempty"`
}

func (m Metadata) Clone() Metadata {
	m.PriorityCategories = slices.Clone(m.PriorityCategories)
	return m
}

// Result holds either a chosen entry or a metadata error, never both.
type Result struct {
	Entry    *feed.Entry
	Metadata Metadata
	Tier     Tier
}

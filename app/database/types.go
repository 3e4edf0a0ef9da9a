package database

import (
	"time"
)

// Source is the persisted fetch status of one configured source.
type Source struct {
	Name          string // Configuration identifier derived from filename
	URL           string
	DisplayName   string
	Title         string // Feed's own title from the last successful fetch
	LastFetchedAt *time.Time
	LastSuccessAt *time.Time
	LastError     string
	ErrorKind     string // network_error or parse_error
	EntryCount    int    // entries kept by the last fetch
	FetchCount    int
	FailureCount  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

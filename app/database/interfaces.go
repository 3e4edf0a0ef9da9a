package database

import (
	"time"
)

type SourceRepository interface {
	GetSource(name string) (*Source, error)
	GetSources() ([]Source, error)
	GetSourceCount() (int, error)

	UpsertSource(name, url, displayName string) (bool, error)
	UpdateFetchStatus(name, title string, fetchedAt time.Time, entryCount int, fetchErr error) error
}

var _ SourceRepository = (*SQLiteSourceRepository)(nil)

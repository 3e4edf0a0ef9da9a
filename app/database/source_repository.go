package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/daily-pick/app/feed"
)

const sourceColumns = `name, url, display_name, title, last_fetched_at, last_success_at,
	last_error, error_kind, entry_count, fetch_count, failure_count, created_at, updated_at`

type SQLiteSourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) *SQLiteSourceRepository {
	return &SQLiteSourceRepository{db: db}
}

// UpsertSource registers a configured source and reports whether its URL changed.
func (r *SQLiteSourceRepository) UpsertSource(name, url, displayName string) (bool, error) {
	existing, err := r.GetSource(name)
	if err != nil {
		return false, fmt.Errorf("failed to check existing source: %w", err)
	}

	now := time.Now().UTC()
	if existing == nil {
		_, err = r.db.Exec(`
			INSERT INTO sources (name, url, display_name, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, name, url, displayName, now, now)
		if err != nil {
			return false, fmt.Errorf("failed to insert source: %w", err)
		}
		return false, nil
	}

	_, err = r.db.Exec(`
		UPDATE sources
		SET url = ?, display_name = ?, updated_at = ?
		WHERE name = ?
	`, url, displayName, now, name)
	if err != nil {
		return false, fmt.Errorf("failed to update source: %w", err)
	}

	return existing.URL != url, nil
}

// UpdateFetchStatus records the outcome of one fetch. A nil fetchErr marks
// the fetch successful and clears the previous error.
func (r *SQLiteSourceRepository) UpdateFetchStatus(name, title string, fetchedAt time.Time, entryCount int, fetchErr error) error {
	var err error
	if fetchErr == nil {
		_, err = r.db.Exec(`
			UPDATE sources
			SET title = CASE WHEN ? <> '' THEN ? ELSE title END,
			    last_fetched_at = ?, last_success_at = ?, last_error = '', error_kind = '',
			    entry_count = ?, fetch_count = fetch_count + 1, updated_at = ?
			WHERE name = ?
		`, title, title, fetchedAt, fetchedAt, entryCount, time.Now().UTC(), name)
	} else {
		_, err = r.db.Exec(`
			UPDATE sources
			SET last_fetched_at = ?, last_error = ?, error_kind = ?, entry_count = 0,
			    fetch_count = fetch_count + 1, failure_count = failure_count + 1, updated_at = ?
			WHERE name = ?
		`, fetchedAt, fetchErr.Error(), string(feed.KindOf(fetchErr)), time.Now().UTC(), name)
	}

	if err != nil {
		return fmt.Errorf("failed to update fetch status: %w", err)
	}

	return nil
}

func (r *SQLiteSourceRepository) GetSource(name string) (*Source, error) {
	row := r.db.QueryRow(`SELECT `+sourceColumns+` FROM sources WHERE name = ?`, name)

	source, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return source, nil
}

func (r *SQLiteSourceRepository) GetSources() ([]Source, error) {
	rows, err := r.db.Query(`SELECT ` + sourceColumns + ` FROM sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, *source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}

func (r *SQLiteSourceRepository) GetSourceCount() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*Source, error) {
	var source Source
	var lastFetched, lastSuccess sql.NullTime

	err := row.Scan(
		&source.Name, &source.URL, &source.DisplayName, &source.Title,
		&lastFetched, &lastSuccess,
		&source.LastError, &source.ErrorKind,
		&source.EntryCount, &source.FetchCount, &source.FailureCount,
		&source.CreatedAt, &source.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastFetched.Valid {
		source.LastFetchedAt = &lastFetched.Time
	}
	if lastSuccess.Valid {
		source.LastSuccessAt = &lastSuccess.Time
	}

	return &source, nil
}

package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/daily-pick/app/feed"
)

func newTestRepository(t *testing.T) *SQLiteSourceRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	return NewSourceRepository(db)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	_, _, err = RunMigrations(db)
	require.NoError(t, err)

	version, dirty, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestUpsertSource(t *testing.T) {
	repo := newTestRepository(t)

	changed, err := repo.UpsertSource("korea", "https://example.com/korea.xml", "Korea Blog")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repo.UpsertSource("korea", "https://example.com/korea.xml", "Korea Blog")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repo.UpsertSource("korea", "https://example.com/korea/feed", "Korea Tech Blog")
	require.NoError(t, err)
	assert.True(t, changed)

	source, err := repo.GetSource("korea")
	require.NoError(t, err)
	require.NotNil(t, source)
	assert.Equal(t, "https://example.com/korea/feed", source.URL)
	assert.Equal(t, "Korea Tech Blog", source.DisplayName)
	assert.Nil(t, source.LastFetchedAt)
	assert.Nil(t, source.LastSuccessAt)
	assert.Equal(t, 0, source.FetchCount)
}

func TestGetSourceMissing(t *testing.T) {
	repo := newTestRepository(t)

	source, err := repo.GetSource("missing")
	require.NoError(t, err)
	assert.Nil(t, source)
}

func TestGetSources(t *testing.T) {
	repo := newTestRepository(t)

	for _, name := range []string{"news", "devops", "korea"} {
		_, err := repo.UpsertSource(name, "https://example.com/"+name, "")
		require.NoError(t, err)
	}

	sources, err := repo.GetSources()
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "devops", sources[0].Name)
	assert.Equal(t, "korea", sources[1].Name)
	assert.Equal(t, "news", sources[2].Name)

	count, err := repo.GetSourceCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUpdateFetchStatus(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.UpsertSource("korea", "https://example.com/korea.xml", "Korea Blog")
	require.NoError(t, err)

	fetchedAt := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateFetchStatus("korea", "AWS Korea", fetchedAt, 12, nil))

	source, err := repo.GetSource("korea")
	require.NoError(t, err)
	assert.Equal(t, "AWS Korea", source.Title)
	assert.Equal(t, 12, source.EntryCount)
	assert.Equal(t, 1, source.FetchCount)
	assert.Equal(t, 0, source.FailureCount)
	require.NotNil(t, source.LastSuccessAt)
	assert.True(t, fetchedAt.Equal(*source.LastSuccessAt))
	assert.Empty(t, source.LastError)

	failedAt := fetchedAt.Add(time.Hour)
	fetchErr := &feed.IngestError{Kind: feed.KindNetwork, Source: "korea", Err: errors.New("HTTP error: 503 Service Unavailable")}
	require.NoError(t, repo.UpdateFetchStatus("korea", "", failedAt, 0, fetchErr))

	source, err = repo.GetSource("korea")
	require.NoError(t, err)
	assert.Equal(t, "AWS Korea", source.Title)
	assert.Equal(t, 0, source.EntryCount)
	assert.Equal(t, 2, source.FetchCount)
	assert.Equal(t, 1, source.FailureCount)
	assert.Equal(t, "network_error", source.ErrorKind)
	assert.Contains(t, source.LastError, "503")
	require.NotNil(t, source.LastFetchedAt)
	assert.True(t, failedAt.Equal(*source.LastFetchedAt))
	assert.True(t, fetchedAt.Equal(*source.LastSuccessAt))

	require.NoError(t, repo.UpdateFetchStatus("korea", "", failedAt.Add(time.Hour), 3, nil))

	source, err = repo.GetSource("korea")
	require.NoError(t, err)
	assert.Equal(t, "AWS Korea", source.Title)
	assert.Empty(t, source.ErrorKind)
	assert.Empty(t, source.LastError)
	assert.Equal(t, 3, source.EntryCount)
}

func TestUpdateFetchStatusUnknownSource(t *testing.T) {
	repo := newTestRepository(t)

	assert.NoError(t, repo.UpdateFetchStatus("missing", "", time.Now(), 0, nil))

	count, err := repo.GetSourceCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

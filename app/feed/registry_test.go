package feed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, name+".yml"), content)
}

const validSource = `
url: "https://example.com/feed.xml"
name: "Example Blog"
description: "Example posts"

settings:
  enabled: true
  max_items: 25
  timeout: 15
`

func newTestRegistry(t *testing.T, priorities string) *Registry {
	t.Helper()

	dir := t.TempDir()
	feedsDir := filepath.Join(dir, "feeds")
	require.NoError(t, os.Mkdir(feedsDir, 0755))

	writeSource(t, feedsDir, "korea", validSource)
	writeSource(t, feedsDir, "devops", `
url: "https://example.com/devops.xml"
settings:
  enabled: true
`)
	writeSource(t, feedsDir, "news", `
url: "https://example.com/news.xml"
name: "News Blog"
settings:
  enabled: false
`)

	prioritiesFile := filepath.Join(dir, "priorities.yml")
	writeFile(t, prioritiesFile, priorities)

	return NewRegistry(feedsDir, prioritiesFile)
}

func TestRegistryLoadsSourcesAndPriorities(t *testing.T) {
	registry := newTestRegistry(t, `
default: [korea]
weekdays:
  monday: [korea, devops]
  Friday: [devops]
`)
	require.NoError(t, registry.Run())

	assert.Equal(t, 2, registry.GetSourceCount())
	assert.Equal(t, []string{"devops", "korea"}, registry.Categories())

	source, err := registry.GetSource("korea")
	require.NoError(t, err)
	assert.Equal(t, "korea", source.Name)
	assert.Equal(t, "https://example.com/feed.xml", source.URL)
	assert.Equal(t, "Example Blog", source.DisplayName)
	assert.Equal(t, 25, source.Settings.MaxItems)
	assert.Equal(t, 15, source.Settings.Timeout)

	assert.Equal(t, []string{"korea", "devops"}, registry.Priority(0))
	assert.Equal(t, []string{"devops"}, registry.Priority(4))
	assert.Equal(t, []string{"korea"}, registry.Priority(2))
	assert.Equal(t, []string{"korea"}, registry.Priority(9))
}

func TestRegistryLoadsShippedConfiguration(t *testing.T) {
	registry := NewRegistry("../../feeds", "../../priorities.yml")
	require.NoError(t, registry.Run())

	assert.Equal(t, 7, registry.GetSourceCount())
	assert.Equal(t, []string{
		"aws-architecture", "aws-devops", "aws-korea", "aws-news",
		"aws-opensource", "aws-security", "aws-whats-new",
	}, registry.Categories())
	assert.Equal(t, []string{"aws-korea", "aws-architecture", "aws-news"}, registry.Priority(0))
	assert.Equal(t, []string{"aws-korea", "aws-whats-new", "aws-devops"}, registry.Priority(6))

	source, err := registry.GetSource("aws-korea")
	require.NoError(t, err)
	assert.Equal(t, "aws-korea", source.Name)
	assert.Equal(t, "AWS Korea Blog", source.DisplayName)
	assert.NotEmpty(t, source.URL)
}

func TestRegistryAppliesDefaults(t *testing.T) {
	registry := newTestRegistry(t, "default: [korea]\n")
	require.NoError(t, registry.Run())

	source, err := registry.GetSource("devops")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxItems, source.Settings.MaxItems)
	assert.Equal(t, DefaultTimeout, source.Settings.Timeout)
	assert.Equal(t, "devops", registry.DisplayName("devops"))
	assert.Equal(t, "Example Blog", registry.DisplayName("korea"))
	assert.Equal(t, "missing", registry.DisplayName("missing"))
}

func TestRegistryDisabledSourceIsUnknown(t *testing.T) {
	registry := newTestRegistry(t, "default: [korea]\n")
	require.NoError(t, registry.Run())

	_, err := registry.GetSource("news")
	assert.True(t, errors.Is(err, ErrUnknownSource))

	_, err = registry.GetSource("missing")
	assert.True(t, errors.Is(err, ErrUnknownSource))
}

func TestRegistryPriorityReturnsCopy(t *testing.T) {
	registry := newTestRegistry(t, "default: [korea, devops]\n")
	require.NoError(t, registry.Run())

	list := registry.Priority(0)
	list[0] = "changed"
	assert.Equal(t, []string{"korea", "devops"}, registry.Priority(0))
}

func TestRegistryRejectsInvalidPriorities(t *testing.T) {
	cases := map[string]string{
		"missing default":  "weekdays:\n  monday: [korea]\n",
		"unknown weekday":  "default: [korea]\nweekdays:\n  funday: [korea]\n",
		"unknown category": "default: [korea]\nweekdays:\n  monday: [security]\n",
		"too many":         "default: [korea, devops, korea, devops]\n",
		"malformed":        "default: [korea\n",
	}
	for name, priorities := range cases {
		t.Run(name, func(t *testing.T) {
			registry := newTestRegistry(t, priorities)
			assert.Error(t, registry.Run())
		})
	}
}

func TestRegistryMissingDirectory(t *testing.T) {
	registry := NewRegistry(filepath.Join(t.TempDir(), "nope"), "priorities.yml")
	err := registry.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRegistryMissingPrioritiesFile(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "korea", validSource)

	registry := NewRegistry(dir, filepath.Join(dir, "priorities.yml"))
	assert.Error(t, registry.Run())
}

func TestRegistryValidateSource(t *testing.T) {
	registry := NewRegistry("", "")

	assert.Error(t, registry.validateSource(nil))
	assert.Error(t, registry.validateSource(&Source{URL: "https://example.com"}))
	assert.Error(t, registry.validateSource(&Source{Name: "korea"}))
	assert.Error(t, registry.validateSource(&Source{
		Name: "korea", URL: "https://example.com", Settings: SourceSettings{MaxItems: -1},
	}))
	assert.Error(t, registry.validateSource(&Source{
		Name: "korea", URL: "https://example.com", Settings: SourceSettings{Timeout: -5},
	}))
	assert.NoError(t, registry.validateSource(&Source{Name: "korea", URL: "https://example.com"}))
}

func TestRegistryRejectsSourceWithoutURL(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "broken", "name: \"Broken\"\n")
	prioritiesFile := filepath.Join(dir, "priorities.yaml")
	writeFile(t, prioritiesFile, "default: [broken]\n")

	registry := NewRegistry(dir, prioritiesFile)
	err := registry.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "URL is required")
}

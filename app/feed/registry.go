package feed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxItems = 20
	DefaultTimeout  = 30

	maxPriorityCategories = 3
)

var weekdayKeys = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Registry holds the configured sources and the weekday priority table.
// It is populated once by Run and read-only afterwards.
type Registry struct {
	feedsDir        string
	prioritiesFile  string
	sources         map[string]*Source
	weekdays        [7][]string
	defaultPriority []string
	mu              sync.RWMutex
}

func NewRegistry(feedsDir, prioritiesFile string) *Registry {
	return &Registry{
		feedsDir:       feedsDir,
		prioritiesFile: prioritiesFile,
		sources:        make(map[string]*Source),
	}
}

func (r *Registry) Run() error {
	if _, err := os.Stat(r.feedsDir); os.IsNotExist(err) {
		return fmt.Errorf("feeds directory %s does not exist", r.feedsDir)
	}

	files, err := filepath.Glob(filepath.Join(r.feedsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		sourceName := strings.TrimSuffix(filepath.Base(file), ".yml")

		source, err := r.LoadSource(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source loaded", "category", sourceName, "enabled", source.Settings.Enabled, "url", source.URL)
	}

	if err := r.loadPriorities(); err != nil {
		return fmt.Errorf("error loading %s: %w", r.prioritiesFile, err)
	}

	return nil
}

func (r *Registry) LoadSource(sourceName string) (*Source, error) {
	sourceFile := filepath.Join(r.feedsDir, sourceName+".yml")
	source, err := r.parseSource(sourceFile)
	if err != nil {
		return nil, err
	}

	source.Name = sourceName

	if err := r.validateSource(source); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", sourceFile, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.Name] = source

	return source, nil
}

func (r *Registry) GetSource(sourceName string) (*Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[sourceName]
	if !ok || !source.Settings.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, sourceName)
	}
	return source, nil
}

// GetSources returns enabled sources sorted by name.
func (r *Registry) GetSources() []*Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sources := make([]*Source, 0, len(r.sources))
	for _, source := range r.sources {
		if source.Settings.Enabled {
			sources = append(sources, source)
		}
	}
	slices.SortFunc(sources, func(a, b *Source) int {
		return strings.Compare(a.Name, b.Name)
	})
	return sources
}

// Categories returns enabled source names in registry order.
func (r *Registry) Categories() []string {
	sources := r.GetSources()
	names := make([]string, len(sources))
	for i, source := range sources {
		names[i] = source.Name
	}
	return names
}

// Priority returns the preferred categories for weekday (0 = Monday).
func (r *Registry) Priority(weekday int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if weekday >= 0 && weekday < len(r.weekdays) && len(r.weekdays[weekday]) > 0 {
		return slices.Clone(r.weekdays[weekday])
	}
	return slices.Clone(r.defaultPriority)
}

func (r *Registry) DisplayName(sourceName string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if source, ok := r.sources[sourceName]; ok && source.DisplayName != "" {
		return source.DisplayName
	}
	return sourceName
}

func (r *Registry) GetSourceCount() int {
	return len(r.GetSources())
}

func (r *Registry) parseSource(sourceFile string) (*Source, error) {
	data, err := os.ReadFile(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Settings.MaxItems == 0 {
		source.Settings.MaxItems = DefaultMaxItems
	}
	if source.Settings.Timeout == 0 {
		source.Settings.Timeout = DefaultTimeout
	}

	return &source, nil
}

func (r *Registry) validateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("source is nil")
	}

	if source.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if source.URL == "" {
		return fmt.Errorf("source URL is required")
	}

	if source.Settings.MaxItems < 0 {
		return fmt.Errorf("max items must be non-negative")
	}
	if source.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}

func (r *Registry) loadPriorities() error {
	data, err := os.ReadFile(r.prioritiesFile)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var raw rawPriorities
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(raw.Default) == 0 {
		return fmt.Errorf("default priority list is required")
	}
	if err := r.validatePriorityList("default", raw.Default); err != nil {
		return err
	}

	var weekdays [7][]string
	for key, categories := range raw.Weekdays {
		day := slices.Index(weekdayKeys[:], strings.ToLower(key))
		if day < 0 {
			return fmt.Errorf("invalid weekday: %s", key)
		}
		if err := r.validatePriorityList(key, categories); err != nil {
			return err
		}
		weekdays[day] = categories
	}

	r.weekdays = weekdays
	r.defaultPriority = raw.Default

	return nil
}

func (r *Registry) validatePriorityList(key string, categories []string) error {
	if len(categories) > maxPriorityCategories {
		return fmt.Errorf("%s lists %d categories, at most %d allowed", key, len(categories), maxPriorityCategories)
	}
	for _, category := range categories {
		if _, ok := r.sources[category]; !ok {
			return fmt.Errorf("%s references unknown category: %s", key, category)
		}
	}
	return nil
}

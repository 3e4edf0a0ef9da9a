package cfg

type Cfg struct {
	// Source registry
	FeedsDir       string
	PrioritiesFile string

	// Server configuration
	Port         string
	APIAccessKey string
	DBPath       string

	// Ingestion
	UserAgent        string
	FetchConcurrency int
	ExtractContent   bool

	// Selection
	LookbackDays            int
	ExtendedLookbackDays    int
	MinQualityScore         float64
	ExtendedMinQualityScore float64

	// Translation
	EnableTranslation   bool
	TranslationLanguage string
	GeminiAPIKey        string
	GeminiModel         string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

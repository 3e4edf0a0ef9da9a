package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Source registry
	FeedsDir       string `long:"feeds-dir" env:"FEEDS_DIR" default:"./feeds" description:"Directory containing source configuration files"`
	PrioritiesFile string `long:"priorities-file" env:"PRIORITIES_FILE" default:"./priorities.yml" description:"Weekday category priority table"`

	// Server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for operational endpoints (optional)"`
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./data/daily-pick.db" description:"SQLite database file for source status"`

	// Ingestion
	UserAgent        string `long:"user-agent" env:"USER_AGENT" default:"DailyPick/1.0 (+feed collector)" description:"User agent string for HTTP requests"`
	FetchConcurrency int    `long:"fetch-concurrency" env:"FETCH_CONCURRENCY" default:"0" description:"Maximum parallel source fetches (0 fetches all sources at once)"`
	ExtractContent   bool   `long:"extract-content" env:"EXTRACT_CONTENT" description:"Attach an article excerpt to the daily pick"`

	// Selection
	LookbackDays            int     `long:"lookback-days" env:"LOOKBACK_DAYS" default:"14" description:"Standard lookback window in days"`
	ExtendedLookbackDays    int     `long:"extended-lookback-days" env:"EXTENDED_LOOKBACK_DAYS" default:"30" description:"Lookback window used when the standard window yields nothing"`
	MinQualityScore         float64 `long:"min-quality" env:"MIN_QUALITY_SCORE" default:"1.5" description:"Standard quality threshold"`
	ExtendedMinQualityScore float64 `long:"extended-min-quality" env:"EXTENDED_MIN_QUALITY_SCORE" default:"1.0" description:"Relaxed quality threshold for extended search"`

	// Translation
	EnableTranslation   bool   `long:"enable-translation" env:"ENABLE_TRANSLATION" description:"Enable translation of the daily pick"`
	TranslationLanguage string `long:"translation-language" env:"TRANSLATION_LANGUAGE" default:"ko" description:"Target language (BCP 47 tag)"`
	GeminiAPIKey        string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key used for translation"`
	GeminiModel         string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model used for translation"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone that defines the calendar day (e.g., UTC, Asia/Seoul)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses configuration from the command line and environment. It
// returns nil without an error when help was requested.
func Load() (*Cfg, error) {
	return load(nil)
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		FeedsDir:                raw.FeedsDir,
		PrioritiesFile:          raw.PrioritiesFile,
		Port:                    raw.Port,
		APIAccessKey:            raw.APIAccessKey,
		DBPath:                  raw.DBPath,
		UserAgent:               raw.UserAgent,
		FetchConcurrency:        raw.FetchConcurrency,
		ExtractContent:          raw.ExtractContent,
		LookbackDays:            raw.LookbackDays,
		ExtendedLookbackDays:    raw.ExtendedLookbackDays,
		MinQualityScore:         raw.MinQualityScore,
		ExtendedMinQualityScore: raw.ExtendedMinQualityScore,
		EnableTranslation:       raw.EnableTranslation,
		TranslationLanguage:     raw.TranslationLanguage,
		GeminiAPIKey:            raw.GeminiAPIKey,
		GeminiModel:             raw.GeminiModel,
		Timezone:                raw.Timezone,
		Debug:                   raw.Debug,
		Version:                 GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func validate(cfg *Cfg) error {
	if cfg.LookbackDays <= 0 {
		return fmt.Errorf("lookback days must be positive, got %d", cfg.LookbackDays)
	}
	if cfg.ExtendedLookbackDays < cfg.LookbackDays {
		return fmt.Errorf("extended lookback days (%d) must not be shorter than lookback days (%d)",
			cfg.ExtendedLookbackDays, cfg.LookbackDays)
	}
	if cfg.ExtendedMinQualityScore > cfg.MinQualityScore {
		return fmt.Errorf("extended quality threshold (%.2f) must not exceed the standard threshold (%.2f)",
			cfg.ExtendedMinQualityScore, cfg.MinQualityScore)
	}
	if cfg.FetchConcurrency < 0 {
		return fmt.Errorf("fetch concurrency must be non-negative")
	}
	if cfg.EnableTranslation && cfg.GeminiAPIKey == "" {
		return fmt.Errorf("translation requires a Gemini API key")
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}

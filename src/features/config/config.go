package config

// Config holds the application configuration.
type Config struct {
	// LibraryPath is the root folder whose audio files get repaired.
	// A positional CLI argument overrides it for a single run.
	LibraryPath string   `yaml:"libraryPath" validate:"required"`
	Logger      Logger   `yaml:"logger"`
	Report      Report   `yaml:"report"`
	Database    Database `yaml:"database"`
	Repair      Repair   `yaml:"repair"`
	Watcher     Watcher  `yaml:"watcher"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

// Report holds the configuration for the CSV report sink.
type Report struct {
	Path string `yaml:"path" validate:"required"`
	// NullMarker renders absent tag values in the report. It must not be
	// empty, otherwise a missing tag would be indistinguishable from an
	// empty string.
	NullMarker string `yaml:"null_marker" validate:"required"`
}

// Database holds the configuration for the run history database.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Repair holds the encoding repair policy.
//
// The expected-script heuristic assumes the corpus is East-Asian-language
// tags: a value containing none of the expected scripts is treated as
// garbled, so legitimately Latin/ASCII tags get classified as corrupt and
// end up unrecoverable. Known limitation; tune expected_scripts for a
// different corpus.
type Repair struct {
	// ExpectedScripts names the rune ranges a healthy tag must contain.
	// Known names: kana, cjk, hangul.
	ExpectedScripts []string `yaml:"expected_scripts" validate:"required,min=1"`
	// ConfidenceThreshold gates the statistical detector; at or below it
	// the fixed candidate list decides.
	ConfidenceThreshold float64 `yaml:"confidence_threshold" validate:"gte=0,lte=1"`
	// Candidates are tried in order when detection is inconclusive.
	// Korean encodings before Japanese reflects the expected corpus mix.
	Candidates []string `yaml:"candidates" validate:"required,min=1"`
}

// Watcher holds the configuration for watch mode.
type Watcher struct {
	Enabled         bool `yaml:"enabled"`
	DebounceSeconds int  `yaml:"debounce_seconds"`
}

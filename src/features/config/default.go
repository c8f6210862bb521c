package config

// createDefaultConfig creates a new Config with sensible default values
func createDefaultConfig() *Config {
	return &Config{
		LibraryPath: "./files",
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Report: Report{
			Path:       "./results.csv",
			NullMarker: "NULL",
		},
		Database: Database{
			Path: "./tagmend.db",
		},
		Repair: Repair{
			ExpectedScripts:     []string{"kana", "cjk", "hangul"},
			ConfidenceThreshold: 0.8,
			Candidates:          []string{"cp949", "euc-kr", "shift_jis", "euc_jp", "iso2022_jp"},
		},
		Watcher: Watcher{
			Enabled:         false,
			DebounceSeconds: 5,
		},
	}
}

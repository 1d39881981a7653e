package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Dir:         ".",
		ProjectType: "all",
		Filtering: FilteringConfig{
			KeepSize: "0",
			KeepDays: 0,
			Sort:     "size",
			Reverse:  false,
		},
		Scanning: ScanningConfig{
			Threads: 0,
			Verbose: false,
			Skip:    []string{},
			Ignore:  []string{},
		},
		Execution: ExecutionConfig{
			DryRun:          false,
			Interactive:     false,
			Yes:             false,
			KeepExecutables: false,
		},
	}
}

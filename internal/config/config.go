package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fenilsonani/devclean/internal/project"
	"github.com/fenilsonani/devclean/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration. Values loaded from the
// config file act as defaults; CLI flags override them.
type Config struct {
	// Dir is the default root directory to scan.
	Dir string `yaml:"dir"`

	// ProjectType restricts scanning to one ecosystem
	// ("all", "rust", "node", "python", "go").
	ProjectType string `yaml:"project_type"`

	Filtering FilteringConfig `yaml:"filtering"`
	Scanning  ScanningConfig  `yaml:"scanning"`
	Execution ExecutionConfig `yaml:"execution"`
}

// FilteringConfig selects which discovered projects are eligible for cleaning.
type FilteringConfig struct {
	// KeepSize suppresses projects with artifacts smaller than this
	// human-readable size (e.g. "100MB", "2GiB"). "0" disables it.
	KeepSize string `yaml:"keep_size"`

	// KeepDays suppresses projects built within the last N days.
	KeepDays int `yaml:"keep_days"`

	// Sort orders the report: "size", "name", "type", or "age".
	Sort string `yaml:"sort"`

	// Reverse flips the sort order.
	Reverse bool `yaml:"reverse"`
}

// ScanningConfig controls directory traversal.
type ScanningConfig struct {
	Threads int      `yaml:"threads"`
	Verbose bool     `yaml:"verbose"`
	Skip    []string `yaml:"skip"`
	Ignore  []string `yaml:"ignore"`
}

// ExecutionConfig controls how the cleanup itself runs.
type ExecutionConfig struct {
	DryRun          bool `yaml:"dry_run"`
	Interactive     bool `yaml:"interactive"`
	Yes             bool `yaml:"yes"`
	KeepExecutables bool `yaml:"keep_executables"`
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefault()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to a file
func Save(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, _, err := project.ParseType(c.ProjectType); err != nil {
		return err
	}

	if c.Filtering.KeepSize != "" {
		if _, err := utils.ParseSize(c.Filtering.KeepSize); err != nil {
			return fmt.Errorf("invalid keep_size: %w", err)
		}
	}
	if c.Filtering.KeepDays < 0 {
		return fmt.Errorf("keep_days must be >= 0")
	}
	if c.Filtering.Sort != "" && !project.ValidSortCriterion(c.Filtering.Sort) {
		return fmt.Errorf("invalid sort criterion %q (want size, name, type, or age)", c.Filtering.Sort)
	}

	if c.Scanning.Threads < 0 {
		return fmt.Errorf("threads must be >= 0")
	}

	return nil
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".config", "devclean")
	return filepath.Join(configDir, "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(GetDefault(), configPath); err != nil {
			return "", err
		}
	}

	return configPath, nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Analysis thresholds and keyword lists
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`

	// Storage configuration for saved review runs
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

type AnalysisConfig struct {
	// MinLines is the changed-line threshold above which a PR counts as major
	MinLines int `yaml:"min_lines" mapstructure:"min_lines"`

	// MinGapDays is the minimum inactivity span (inclusive) reported as a gap
	MinGapDays int `yaml:"min_gap_days" mapstructure:"min_gap_days"`

	// MajorKeywords select PRs by title regardless of size (case-insensitive)
	MajorKeywords []string `yaml:"major_keywords" mapstructure:"major_keywords"`

	// BugKeywords override the built-in bug-related message filter when set
	BugKeywords []string `yaml:"bug_keywords" mapstructure:"bug_keywords"`

	// ReleaseBranchPattern matches branch names that mark a commit as a hotfix
	ReleaseBranchPattern string `yaml:"release_branch_pattern" mapstructure:"release_branch_pattern"`

	// CategoryRulesFile points to a yaml file replacing the built-in
	// bug category rules (adding a category is a data change)
	CategoryRulesFile string `yaml:"category_rules_file" mapstructure:"category_rules_file"`

	// HotfixWorkers bounds concurrent branch-containment queries
	HotfixWorkers int `yaml:"hotfix_workers" mapstructure:"hotfix_workers"`
}

type StorageConfig struct {
	Type        string `yaml:"type" mapstructure:"type"` // "sqlite", "postgres"
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Analysis: AnalysisConfig{
			MinLines:             100,
			MinGapDays:           14,
			MajorKeywords:        []string{"refactor", "migration", "redesign", "rewrite"},
			ReleaseBranchPattern: "release",
			HotfixWorkers:        4,
		},
		Storage: StorageConfig{
			Type:       "sqlite",
			SQLitePath: filepath.Join(homeDir, ".commitlens", "runs.db"),
		},
	}
}

// Load loads configuration from file, environment, and defaults
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("analysis", cfg.Analysis)
	v.SetDefault("storage", cfg.Storage)

	v.SetEnvPrefix("COMMITLENS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("commitlens")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".commitlens"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".commitlens", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if dsn := os.Getenv("COMMITLENS_POSTGRES_DSN"); dsn != "" {
		cfg.Storage.PostgresDSN = dsn
		cfg.Storage.Type = "postgres"
	}
	if path := os.Getenv("COMMITLENS_SQLITE_PATH"); path != "" {
		cfg.Storage.SQLitePath = path
	}
	if minLines := os.Getenv("COMMITLENS_MIN_LINES"); minLines != "" {
		if n, err := strconv.Atoi(minLines); err == nil {
			cfg.Analysis.MinLines = n
		}
	}
	if minGap := os.Getenv("COMMITLENS_MIN_GAP_DAYS"); minGap != "" {
		if n, err := strconv.Atoi(minGap); err == nil {
			cfg.Analysis.MinGapDays = n
		}
	}
}

// GetString returns an environment value or default
func GetString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

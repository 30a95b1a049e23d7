package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all settings for a comparison run.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`

	// Report settings
	Report ReportConfig `yaml:"report" mapstructure:"report"`

	// Logging settings
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

type AnalysisConfig struct {
	Workers    int      `yaml:"workers" mapstructure:"workers"`       // Per-file fan-out bound
	Churn      int      `yaml:"churn" mapstructure:"churn"`           // Placeholder churn per function
	Extensions []string `yaml:"extensions" mapstructure:"extensions"` // Allow-list, empty = all supported
}

type ReportConfig struct {
	TopN       int    `yaml:"top_n" mapstructure:"top_n"`             // Critical changes kept
	OutputPath string `yaml:"output_path" mapstructure:"output_path"` // Empty = stdout
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Workers: runtime.NumCPU(),
			Churn:   1,
		},
		Report: ReportConfig{
			TopN: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from file, environment and defaults.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("analysis", cfg.Analysis)
	v.SetDefault("report", cfg.Report)
	v.SetDefault("log", cfg.Log)

	v.SetEnvPrefix("DELTASCOPE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".deltascope")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".deltascope"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine, defaults apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Analysis.Workers < 1 {
		cfg.Analysis.Workers = 1
	}
	if cfg.Report.TopN < 1 {
		cfg.Report.TopN = 10
	}

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".deltascope", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies plain environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if workers := os.Getenv("DELTASCOPE_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil {
			cfg.Analysis.Workers = n
		}
	}
	if topN := os.Getenv("DELTASCOPE_TOP_N"); topN != "" {
		if n, err := strconv.Atoi(topN); err == nil {
			cfg.Report.TopN = n
		}
	}
	if out := os.Getenv("DELTASCOPE_OUTPUT"); out != "" {
		cfg.Report.OutputPath = out
	}
	if level := os.Getenv("DELTASCOPE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	RecorderNone      = "none"
	RecorderSQLite    = "sqlite"
	RecorderFirestore = "firestore"
)

type Config struct {
	Port                 string `yaml:"port"`
	Environment          string `yaml:"environment"`
	LogLevel             string `yaml:"log_level"`
	LogPretty            bool   `yaml:"log_pretty"`
	Recorder             string `yaml:"recorder"`
	SQLitePath           string `yaml:"sqlite_path"`
	FirestoreProject     string `yaml:"firestore_project"`
	BackendURL           string `yaml:"backend_url"`
	SubmissionTTLMinutes int    `yaml:"submission_ttl_minutes"`
	PruneCron            string `yaml:"prune_cron"`
}

func defaults() *Config {
	return &Config{
		Port:                 "8080",
		Environment:          "production",
		LogLevel:             "info",
		Recorder:             RecorderNone,
		SQLitePath:           "varcvar.db",
		FirestoreProject:     "varcvar-stress-test",
		SubmissionTTLMinutes: 60,
		PruneCron:            "@every 5m",
	}
}

// Load builds the configuration from defaults, then the optional YAML file
// named by CONFIG_FILE, then environment variables (a .env file is read first
// if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = getEnvAsBool("LOG_PRETTY", cfg.LogPretty)
	cfg.Recorder = strings.ToLower(getEnv("RECORDER", cfg.Recorder))
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.FirestoreProject = getEnv("FIRESTORE_PROJECT_ID", cfg.FirestoreProject)
	cfg.BackendURL = strings.TrimRight(getEnv("BACKEND_URL", cfg.BackendURL), "/")
	cfg.SubmissionTTLMinutes = getEnvAsInt("SUBMISSION_TTL_MINUTES", cfg.SubmissionTTLMinutes)
	cfg.PruneCron = getEnv("PRUNE_CRON", cfg.PruneCron)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Validate checks the fields that have a closed set of values
func (c *Config) Validate() error {
	switch c.Recorder {
	case RecorderNone, RecorderSQLite, RecorderFirestore:
	default:
		return fmt.Errorf("unknown recorder %q (want none, sqlite or firestore)", c.Recorder)
	}
	if c.Recorder == RecorderSQLite && c.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required for the sqlite recorder")
	}
	if c.Recorder == RecorderFirestore && c.FirestoreProject == "" {
		return fmt.Errorf("FIRESTORE_PROJECT_ID is required for the firestore recorder")
	}
	if c.SubmissionTTLMinutes <= 0 {
		return fmt.Errorf("SUBMISSION_TTL_MINUTES must be positive, got %d", c.SubmissionTTLMinutes)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

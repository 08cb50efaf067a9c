package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Report store kinds.
const (
	StoreNone      = "none"
	StoreFirestore = "firestore"
	StoreSQLite    = "sqlite"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port                  string
	GinMode               string
	LogMode               string
	CountriesBaseURL      string
	CountriesTimeout      time.Duration
	SearchWorkers         int
	ReportStore           string
	SQLitePath            string
	FirebaseProjectID     string
	FirebaseCredsBase64   string
	FirebaseCredsFile     string
	// FirestoreEmulatorHost points the client at a local emulator; no credentials are needed then.
	FirestoreEmulatorHost string
	AllowedOrigins        string
	Otel                  OtelConfig
}

// OtelConfig controls trace export.
type OtelConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		GinMode:               getEnv("GIN_MODE", "release"),
		LogMode:               getEnv("LOG_MODE", "prod"),
		CountriesBaseURL:      getEnv("COUNTRIES_BASE_URL", "https://restcountries.com/v3.1"),
		ReportStore:           strings.ToLower(getEnv("REPORT_STORE", StoreNone)),
		SQLitePath:            getEnv("SQLITE_PATH", "country-stats.db"),
		FirebaseProjectID:     strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		FirebaseCredsBase64:   strings.TrimSpace(os.Getenv("FIREBASE_CREDS_BASE64")),
		FirebaseCredsFile:     strings.TrimSpace(os.Getenv("FIREBASE_CREDS_FILE")),
		FirestoreEmulatorHost: strings.TrimSpace(os.Getenv("FIRESTORE_EMULATOR_HOST")),
		AllowedOrigins:        strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
		Otel: OtelConfig{
			Endpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		},
	}

	timeout, err := time.ParseDuration(getEnv("COUNTRIES_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse COUNTRIES_TIMEOUT: %w", err)
	}
	cfg.CountriesTimeout = timeout

	workers, err := strconv.Atoi(getEnv("SEARCH_WORKERS", "4"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEARCH_WORKERS: %w", err)
	}
	cfg.SearchWorkers = workers

	if cfg.Otel.Enabled, err = parseBoolEnv("OTEL_ENABLED", false); err != nil {
		return Config{}, fmt.Errorf("parse OTEL_ENABLED: %w", err)
	}
	if cfg.Otel.Insecure, err = parseBoolEnv("OTEL_EXPORTER_OTLP_INSECURE", false); err != nil {
		return Config{}, fmt.Errorf("parse OTEL_EXPORTER_OTLP_INSECURE: %w", err)
	}
	if cfg.Otel.SampleRatio, err = strconv.ParseFloat(getEnv("OTEL_SAMPLER_RATIO", "1"), 64); err != nil {
		return Config{}, fmt.Errorf("parse OTEL_SAMPLER_RATIO: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.CountriesTimeout <= 0 {
		return errors.New("COUNTRIES_TIMEOUT must be positive")
	}
	if c.SearchWorkers <= 0 {
		return errors.New("SEARCH_WORKERS must be positive")
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		return errors.New("OTEL_SAMPLER_RATIO must be between 0 and 1")
	}
	switch c.ReportStore {
	case StoreNone:
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite report store")
		}
	case StoreFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore report store")
		}
		if c.FirestoreEmulatorHost == "" && c.FirebaseCredsBase64 == "" && c.FirebaseCredsFile == "" {
			return errors.New("provide FIREBASE_CREDS_BASE64, FIREBASE_CREDS_FILE or FIRESTORE_EMULATOR_HOST for Firestore")
		}
	default:
		return fmt.Errorf("REPORT_STORE must be one of %s, %s, %s", StoreNone, StoreSQLite, StoreFirestore)
	}
	return nil
}

// FirebaseCredentialsJSON returns the service account JSON bytes and the source used.
func (c Config) FirebaseCredentialsJSON() ([]byte, string, error) {
	if c.FirebaseCredsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.FirebaseCredsBase64)
		if err != nil {
			return nil, "base64", fmt.Errorf("decode FIREBASE_CREDS_BASE64: %w", err)
		}
		return decoded, "base64", nil
	}
	if c.FirebaseCredsFile != "" {
		data, err := os.ReadFile(c.FirebaseCredsFile)
		if err != nil {
			return nil, "file", fmt.Errorf("read FIREBASE_CREDS_FILE: %w", err)
		}
		return data, "file", nil
	}
	return nil, "", errors.New("no firebase credentials found")
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func parseBoolEnv(key string, defaultVal bool) (bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

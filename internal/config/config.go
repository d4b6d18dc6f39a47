package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config contains all runtime settings for the knowledge engine and its REPL.
type Config struct {
	MetricsNamespace string
	MetricsAddr      string

	ProfilePath string

	// Storage backend selection, highest precedence first.
	DatabaseURL  string
	SQLitePath   string
	SnapshotPath string

	EmbeddingDim        int
	ConfidenceThreshold float64
	MemoryWindow        int
	MaxKnowledgeEntries int
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		MetricsNamespace:    envOrDefault("APP_METRICS_NAMESPACE", "detailbrain"),
		MetricsAddr:         trimmedEnv("APP_METRICS_ADDR"),
		ProfilePath:         trimmedEnv("PROFILE_PATH"),
		DatabaseURL:         trimmedEnv("DATABASE_URL"),
		SQLitePath:          trimmedEnv("SQLITE_PATH"),
		SnapshotPath:        trimmedEnv("SNAPSHOT_PATH"),
		EmbeddingDim:        384,
		ConfidenceThreshold: 0.7,
		MemoryWindow:        10,
		MaxKnowledgeEntries: 10000,
	}

	var err error
	cfg.EmbeddingDim, err = intFromEnv("EMBEDDING_DIM", cfg.EmbeddingDim)
	if err != nil {
		return Config{}, err
	}
	cfg.ConfidenceThreshold, err = floatFromEnv("CONFIDENCE_THRESHOLD", cfg.ConfidenceThreshold)
	if err != nil {
		return Config{}, err
	}
	cfg.MemoryWindow, err = intFromEnv("MEMORY_WINDOW", cfg.MemoryWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxKnowledgeEntries, err = intFromEnv("MAX_KNOWLEDGE_ENTRIES", cfg.MaxKnowledgeEntries)
	if err != nil {
		return Config{}, err
	}

	if cfg.EmbeddingDim <= 0 {
		return Config{}, fmt.Errorf("EMBEDDING_DIM must be positive")
	}
	if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold > 1 {
		return Config{}, fmt.Errorf("CONFIDENCE_THRESHOLD must be in (0, 1]")
	}
	if cfg.MemoryWindow <= 0 {
		return Config{}, fmt.Errorf("MEMORY_WINDOW must be positive")
	}
	if cfg.MaxKnowledgeEntries <= 0 {
		return Config{}, fmt.Errorf("MAX_KNOWLEDGE_ENTRIES must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

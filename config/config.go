package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultEmbeddingSize = 128
	defaultNumWorkers    = 4
	defaultQueueSize     = 200
)

type Config struct {
	// database path
	DatabasePath string

	// expected length of face embedding vectors (external contract with the
	// embedding service)
	EmbeddingSize int

	// batch aggregation worker settings
	AggregationQueueSize  int
	NumAggregationWorkers int

	// optional YAML file overriding the default matching settings
	MatchingSettingsPath string

	// matching settings resolved at load time; immutable afterwards
	Matching MatchingSettings
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}

	dbPath := getEnvOrDefault("DATABASE_PATH", "faces.db")
	embeddingSize := getEnvIntOrDefault("EMBEDDING_SIZE", defaultEmbeddingSize)
	queueSize := getEnvIntOrDefault("AGGREGATION_QUEUE_SIZE", defaultQueueSize)
	numWorkers := getEnvIntOrDefault("NUM_AGGREGATION_WORKERS", defaultNumWorkers)
	settingsPath := os.Getenv("MATCHING_SETTINGS_PATH")

	matching := DefaultMatchingSettings()
	if settingsPath != "" {
		loaded, err := LoadMatchingSettings(settingsPath)
		if err != nil {
			return Config{}, err
		}
		matching = loaded
	}
	if err := matching.Validate(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		DatabasePath:          dbPath,
		EmbeddingSize:         embeddingSize,
		AggregationQueueSize:  queueSize,
		NumAggregationWorkers: numWorkers,
		MatchingSettingsPath:  settingsPath,
		Matching:              matching,
	}

	return cfg, nil
}

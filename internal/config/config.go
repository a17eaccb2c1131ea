package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"downtime-mcs/internal/equipment"
	"downtime-mcs/internal/service"
	"downtime-mcs/internal/simulation"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Equipment   equipment.Config
	Service     service.Options
	DataPath    string
	LogDir      string
	MetricsAddr string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return fromEnv(exeDir)
}

func fromEnv(exeDir string) (*AppConfig, error) {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))

	delayMs, err := getEnvInt("EQUIPMENT_REQUEST_DELAY_MS", 0)
	if err != nil {
		return nil, err
	}
	iterations, err := getEnvInt("SIM_ITERATIONS", 0)
	if err != nil {
		return nil, err
	}
	sensitivityIterations, err := getEnvInt("SIM_SENSITIVITY_ITERATIONS", 0)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("SIM_WORKERS", 0)
	if err != nil {
		return nil, err
	}
	timeoutSecs, err := getEnvInt("SIM_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	confidence, err := getEnvFloat("SIM_CONFIDENCE_LEVEL", 0)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(confidence) || (confidence != 0 && (confidence <= 0 || confidence >= 1)) {
		return nil, fmt.Errorf("SIM_CONFIDENCE_LEVEL must be in (0, 1), got %v", confidence)
	}

	for key, n := range map[string]int{"SIM_ITERATIONS": iterations, "SIM_SENSITIVITY_ITERATIONS": sensitivityIterations} {
		if n > simulation.MaxIterations {
			return nil, fmt.Errorf("%s must be <= %d, got %d", key, simulation.MaxIterations, n)
		}
	}

	var seed *uint64
	if value, ok := os.LookupEnv("SIM_SEED"); ok && value != "" {
		s, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SIM_SEED %q: %w", value, err)
		}
		seed = &s
	}

	cfg := &AppConfig{
		Equipment: equipment.Config{
			Source:       equipment.Source(getEnv("EQUIPMENT_SOURCE", string(equipment.SourceFile))),
			FilePath:     getEnv("EQUIPMENT_FILE", filepath.Join(dataPath, "equipment.jsonl")),
			BaseURL:      getEnv("EQUIPMENT_API_URL", ""),
			Token:        getEnv("EQUIPMENT_API_TOKEN", ""),
			RequestDelay: time.Duration(delayMs) * time.Millisecond,
			DatabaseURL:  getEnv("DATABASE_URL", ""),
		},
		Service: service.Options{
			Iterations:            iterations,
			SensitivityIterations: sensitivityIterations,
			Workers:               workers,
			Timeout:               time.Duration(timeoutSecs) * time.Second,
			Seed:                  seed,
			ConfidenceLevel:       confidence,
		},
		DataPath:    dataPath,
		LogDir:      logDir,
		MetricsAddr: getEnv("METRICS_ADDR", ""),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, value)
	}
	return f, nil
}

package config

import (
	"path/filepath"
	"testing"
	"time"

	"downtime-mcs/internal/equipment"
)

func TestFromEnv_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	for _, key := range []string{"LOGS_FOLDER", "EQUIPMENT_SOURCE", "EQUIPMENT_FILE", "SIM_ITERATIONS", "SIM_TIMEOUT_SECONDS", "SIM_SEED", "SIM_CONFIDENCE_LEVEL", "METRICS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg, err := fromEnv("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Equipment.Source != equipment.SourceFile {
		t.Errorf("Expected file source, got %q", cfg.Equipment.Source)
	}
	if want := filepath.Join(dir, "equipment.jsonl"); cfg.Equipment.FilePath != want {
		t.Errorf("Expected %s, got %s", want, cfg.Equipment.FilePath)
	}
	if want := filepath.Join(dir, "logs"); cfg.LogDir != want {
		t.Errorf("Expected %s, got %s", want, cfg.LogDir)
	}
	if cfg.Service.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.Service.Timeout)
	}
	if cfg.Service.Seed != nil {
		t.Errorf("Expected no seed, got %d", *cfg.Service.Seed)
	}
	if cfg.MetricsAddr != "" {
		t.Errorf("Expected metrics disabled, got %q", cfg.MetricsAddr)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("EQUIPMENT_SOURCE", "http")
	t.Setenv("EQUIPMENT_API_URL", "https://cmms.example.org")
	t.Setenv("EQUIPMENT_REQUEST_DELAY_MS", "250")
	t.Setenv("SIM_ITERATIONS", "5000")
	t.Setenv("SIM_WORKERS", "3")
	t.Setenv("SIM_SEED", "42")
	t.Setenv("SIM_CONFIDENCE_LEVEL", "0.9")
	t.Setenv("METRICS_ADDR", ":9102")

	cfg, err := fromEnv("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Equipment.Source != equipment.SourceHTTP || cfg.Equipment.BaseURL != "https://cmms.example.org" {
		t.Errorf("Unexpected equipment config %+v", cfg.Equipment)
	}
	if cfg.Equipment.RequestDelay != 250*time.Millisecond {
		t.Errorf("Expected 250ms delay, got %v", cfg.Equipment.RequestDelay)
	}
	if cfg.Service.Iterations != 5000 || cfg.Service.Workers != 3 {
		t.Errorf("Unexpected service options %+v", cfg.Service)
	}
	if cfg.Service.Seed == nil || *cfg.Service.Seed != 42 {
		t.Errorf("Expected seed 42, got %v", cfg.Service.Seed)
	}
	if cfg.Service.ConfidenceLevel != 0.9 {
		t.Errorf("Expected confidence 0.9, got %v", cfg.Service.ConfidenceLevel)
	}
	if cfg.MetricsAddr != ":9102" {
		t.Errorf("Expected :9102, got %q", cfg.MetricsAddr)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SIM_ITERATIONS", "many"},
		{"SIM_TIMEOUT_SECONDS", "-1"},
		{"SIM_SEED", "-7"},
		{"SIM_CONFIDENCE_LEVEL", "1.5"},
		{"SIM_CONFIDENCE_LEVEL", "NaN"},
		{"SIM_ITERATIONS", "2000000"},
		{"SIM_SENSITIVITY_ITERATIONS", "1125899906842624"},
		{"EQUIPMENT_REQUEST_DELAY_MS", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("DATA_PATH", t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := fromEnv(""); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

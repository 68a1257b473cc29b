package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %s", cfg.GeminiModel)
	}
	if cfg.ClassifierWorkers != 4 {
		t.Errorf("ClassifierWorkers = %d, want 4", cfg.ClassifierWorkers)
	}
	if cfg.ClassifierMinDelay != 100*time.Millisecond {
		t.Errorf("ClassifierMinDelay = %v, want 100ms", cfg.ClassifierMinDelay)
	}
	if cfg.ClassifierTimeout != 30*time.Second {
		t.Errorf("ClassifierTimeout = %v, want 30s", cfg.ClassifierTimeout)
	}
	if cfg.QueueBufferSize != 100 || cfg.QueueWorkers != 2 {
		t.Errorf("Queue defaults = %d/%d", cfg.QueueBufferSize, cfg.QueueWorkers)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CLASSIFIER_WORKERS", "8")
	t.Setenv("CLASSIFIER_MIN_DELAY", "250ms")
	t.Setenv("PREDICTOR_URL", "https://example.com/predict")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("Port = %s, want 9000", cfg.Port)
	}
	if cfg.ClassifierWorkers != 8 {
		t.Errorf("ClassifierWorkers = %d, want 8", cfg.ClassifierWorkers)
	}
	if cfg.ClassifierMinDelay != 250*time.Millisecond {
		t.Errorf("ClassifierMinDelay = %v, want 250ms", cfg.ClassifierMinDelay)
	}
	if cfg.PredictorURL != "https://example.com/predict" {
		t.Errorf("PredictorURL = %s", cfg.PredictorURL)
	}
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("CLASSIFIER_WORKERS", "not-a-number")
	t.Setenv("CLASSIFIER_TIMEOUT", "soon")

	cfg := Load()
	if cfg.ClassifierWorkers != 4 {
		t.Errorf("ClassifierWorkers = %d, want default 4", cfg.ClassifierWorkers)
	}
	if cfg.ClassifierTimeout != 30*time.Second {
		t.Errorf("ClassifierTimeout = %v, want default 30s", cfg.ClassifierTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Load()
		cfg.UploadDir = t.TempDir()
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"bad port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"empty model", func(c *Config) { c.GeminiModel = "" }, "model name"},
		{"zero workers", func(c *Config) { c.ClassifierWorkers = 0 }, "worker count"},
		{"too many workers", func(c *Config) { c.ClassifierWorkers = 100 }, "worker count"},
		{"negative delay", func(c *Config) { c.ClassifierMinDelay = -time.Second }, "min delay"},
		{"tiny timeout", func(c *Config) { c.ClassifierTimeout = time.Millisecond }, "timeout"},
		{"bad predictor scheme", func(c *Config) { c.PredictorURL = "ftp://example.com" }, "scheme"},
		{"zero buffer", func(c *Config) { c.QueueBufferSize = 0 }, "buffer size"},
		{"missing upload dir", func(c *Config) { c.UploadDir = "/definitely/not/here" }, "not accessible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Load()
	cfg.UploadDir = t.TempDir()
	cfg.Port = "abc"
	cfg.ClassifierWorkers = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid port") || !strings.Contains(err.Error(), "worker count") {
		t.Errorf("Expected both errors reported, got: %v", err)
	}
}

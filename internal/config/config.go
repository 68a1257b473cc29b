package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port      string
	UploadDir string

	// Classifier
	GeminiModel        string
	ClassifierWorkers  int
	ClassifierMinDelay time.Duration
	ClassifierTimeout  time.Duration

	// Plan predictor
	PredictorURL string

	// Job queue
	QueueBufferSize int
	QueueWorkers    int

	// Google Cloud
	GoogleCredentialsFile string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		UploadDir: getEnv("UPLOAD_DIR", os.TempDir()),

		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		ClassifierWorkers:  getEnvInt("CLASSIFIER_WORKERS", 4),
		ClassifierMinDelay: getEnvDuration("CLASSIFIER_MIN_DELAY", 100*time.Millisecond),
		ClassifierTimeout:  getEnvDuration("CLASSIFIER_TIMEOUT", 30*time.Second),

		PredictorURL: getEnv("PREDICTOR_URL", ""),

		QueueBufferSize: getEnvInt("QUEUE_BUFFER_SIZE", 100),
		QueueWorkers:    getEnvInt("QUEUE_WORKERS", 2),

		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.UploadDir == "" {
		errors = append(errors, "upload directory cannot be empty")
	} else if info, err := os.Stat(c.UploadDir); err != nil {
		errors = append(errors, fmt.Sprintf("upload directory '%s' is not accessible: %v", c.UploadDir, err))
	} else if !info.IsDir() {
		errors = append(errors, fmt.Sprintf("upload directory '%s' is not a directory", c.UploadDir))
	}

	if c.GeminiModel == "" {
		errors = append(errors, "Gemini model name cannot be empty")
	}

	if c.ClassifierWorkers < 1 {
		errors = append(errors, fmt.Sprintf("invalid classifier worker count %d: must be at least 1", c.ClassifierWorkers))
	} else if c.ClassifierWorkers > 64 {
		errors = append(errors, fmt.Sprintf("invalid classifier worker count %d: must be at most 64", c.ClassifierWorkers))
	}

	if c.ClassifierMinDelay < 0 {
		errors = append(errors, fmt.Sprintf("invalid classifier min delay %v: must not be negative", c.ClassifierMinDelay))
	}

	if c.ClassifierTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid classifier timeout %v: must be at least 1 second", c.ClassifierTimeout))
	}

	if c.PredictorURL != "" {
		if parsed, err := url.Parse(c.PredictorURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid predictor URL '%s': %v", c.PredictorURL, err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid predictor URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
		}
	}

	if c.QueueBufferSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid queue buffer size %d: must be at least 1", c.QueueBufferSize))
	}

	if c.QueueWorkers < 1 {
		errors = append(errors, fmt.Sprintf("invalid queue worker count %d: must be at least 1", c.QueueWorkers))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

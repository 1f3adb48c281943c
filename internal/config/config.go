package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type envConfig struct {
	APP_PORT           string
	LOG_FILE_PATH      string
	LOG_LEVEL          string
	LAYOUT_CONFIG_PATH string
	MAX_BODY_SIZE      string // echo body limit, e.g. "2M"
	MAX_EXPORT_ROWS    int
}

var DefaultEnvConfig = envConfig{
	APP_PORT:           "8080",
	LOG_LEVEL:          "info",
	LAYOUT_CONFIG_PATH: "layouts.yaml",
	MAX_BODY_SIZE:      "2M",
	MAX_EXPORT_ROWS:    100000,
}

// LoadEnvConfig reads .env when present, then the process environment.
// Unset variables keep their defaults.
func LoadEnvConfig(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := DefaultEnvConfig
	setString(&cfg.APP_PORT, "APP_PORT")
	setString(&cfg.LOG_FILE_PATH, "LOG_FILE_PATH")
	setString(&cfg.LOG_LEVEL, "LOG_LEVEL")
	setString(&cfg.LAYOUT_CONFIG_PATH, "LAYOUT_CONFIG_PATH")
	setString(&cfg.MAX_BODY_SIZE, "MAX_BODY_SIZE")
	if v := os.Getenv("MAX_EXPORT_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("MAX_EXPORT_ROWS must be a positive integer, got %q", v)
		}
		cfg.MAX_EXPORT_ROWS = n
	}

	DefaultEnvConfig = cfg
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

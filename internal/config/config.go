package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	DefaultInputPath   = "fire_clean.csv"
	FrequencyChartFile = "type_frequency.png"
	MedianChartFile    = "median_duration_top15.png"
	TopTypes           = 15
)

// Config holds the few paths the job touches. Everything else is fixed.
type Config struct {
	InputPath string
	OutputDir string
}

// Load reads an optional .env and applies defaults.
func Load() Config {
	_ = godotenv.Load() // loads .env

	return Config{
		InputPath: envOr("INPUT_PATH", DefaultInputPath),
		OutputDir: envOr("OUTPUT_DIR", "."),
	}
}

func (c Config) FrequencyChartPath() string {
	return filepath.Join(c.OutputDir, FrequencyChartFile)
}

func (c Config) MedianChartPath() string {
	return filepath.Join(c.OutputDir, MedianChartFile)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

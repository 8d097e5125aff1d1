package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vsinha/gearcalc/pkg/domain/entities"
)

const (
	EnvCatalog   = "GEARCALC_CATALOG"
	EnvBikeType  = "GEARCALC_BIKE_TYPE"
	EnvSpeedUnit = "GEARCALC_SPEED_UNIT"
	EnvLogLevel  = "GEARCALC_LOG_LEVEL"
	EnvCacheSize = "GEARCALC_CACHE_SIZE"
	EnvOutputDir = "GEARCALC_OUTPUT_DIR"
	EnvVerbose   = "GEARCALC_VERBOSE"

	DefaultCacheSize = 128
)

// Config holds process-wide defaults. CLI flags override every field.
type Config struct {
	// CatalogPath is empty when the built-in catalog should be used
	CatalogPath string
	BikeType    entities.BikeType
	SpeedUnit   entities.SpeedUnit
	LogLevel    zerolog.Level
	CacheSize   int
	OutputDir   string
	Verbose     bool
}

// Load reads an optional .env file and then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// LoadFiles reads the given env files instead of ./.env. Missing files are an error.
func LoadFiles(filenames ...string) (*Config, error) {
	if err := godotenv.Load(filenames...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment
func FromEnv() (*Config, error) {
	bikeType, err := entities.ParseBikeType(GetEnv(EnvBikeType, string(entities.Road)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvBikeType, err)
	}

	speedUnit, err := entities.ParseSpeedUnit(GetEnv(EnvSpeedUnit, string(entities.KMH)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvSpeedUnit, err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(GetEnv(EnvLogLevel, "info")))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}

	cacheSize := GetEnvInt(EnvCacheSize, DefaultCacheSize)
	if cacheSize <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", EnvCacheSize, cacheSize)
	}

	return &Config{
		CatalogPath: strings.TrimSpace(GetEnv(EnvCatalog, "")),
		BikeType:    bikeType,
		SpeedUnit:   speedUnit,
		LogLevel:    level,
		CacheSize:   cacheSize,
		OutputDir:   strings.TrimSpace(GetEnv(EnvOutputDir, "")),
		Verbose:     GetEnvBool(EnvVerbose, false),
	}, nil
}

func GetEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists && strings.TrimSpace(val) != "" {
		return val
	}
	return defaultVal
}

func GetEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return i
		}
	}
	return defaultVal
}

func GetEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return defaultVal
		}
		return b
	}
	return defaultVal
}

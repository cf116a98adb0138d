package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"quadpong/logger"
)

type Config struct {
	Addr           string
	AllowedOrigin  string
	LogLevel       string
	LogJSON        bool
	GinMode        string
	RedisURL       string
	ResultsChannel string
	// Seed is zero when RNG_SEED is unset; callers pick a time-based seed then.
	Seed       uint64
	SendBuffer int
}

// InitConfig loads .env into the environment. A missing file is fine.
func InitConfig() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load .env: %w", err)
	}
	logger.Debug("loaded environment from .env")
	return nil
}

// Load reads the process configuration after InitConfig.
func Load() (Config, error) {
	if err := InitConfig(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:           envOr("ADDR", ":8080"),
		AllowedOrigin:  os.Getenv("ALLOWED_ORIGIN"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		LogJSON:        os.Getenv("LOG_FORMAT") == "json",
		GinMode:        envOr("GIN_MODE", "release"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ResultsChannel: envOr("RESULTS_CHANNEL", "quadpong:results"),
		SendBuffer:     64,
	}

	if v, err := GetEnvVariable("RNG_SEED"); err == nil {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: RNG_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	if v, err := GetEnvVariable("SEND_BUFFER"); err == nil {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("config: SEND_BUFFER must be a positive integer, got %q", v)
		}
		cfg.SendBuffer = n
	}
	return cfg, nil
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}

func envOr(name, fallback string) string {
	if v, err := GetEnvVariable(name); err == nil {
		return v
	}
	return fallback
}

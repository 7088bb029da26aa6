package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultPort         = ":8080"
	defaultMaxGridBytes = 1 << 20
)

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return defaultPort
	}
	return port
}

// MaxGridBytes caps the size of a grid accepted over HTTP.
func MaxGridBytes() (int64, error) {
	str, ok := os.LookupEnv("APP_MAX_GRID_BYTES")
	if !ok {
		return defaultMaxGridBytes, nil
	}
	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse APP_MAX_GRID_BYTES: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("APP_MAX_GRID_BYTES must be positive, got %d", n)
	}
	return n, nil
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	switch development {
	case "", "0", "false":
		return false
	default:
		return true
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

type LogFile struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogFile returns nil when TREETOP_LOG_FILE is unset and path is empty.
func NewLogFile(path string) (*LogFile, error) {
	if path == "" {
		path = os.Getenv("TREETOP_LOG_FILE")
	}
	if path == "" {
		return nil, nil
	}

	lf := &LogFile{
		Path:       path,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}

	if sizeStr, ok := os.LookupEnv("TREETOP_LOG_MAX_SIZE_MB"); ok {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return nil, fmt.Errorf("unable to convert TREETOP_LOG_MAX_SIZE_MB to int: %w", err)
		}
		lf.MaxSizeMB = size
	}

	return lf, nil
}

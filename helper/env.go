package helper

import (
	"os"
	"strconv"
)

// GetEnvOrDefault returns environment variable value or default if not set
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvIntOrDefault returns environment variable value as int or default if not set or not a number
func GetEnvIntOrDefault(key string, defaultValue int64) int64 {
	value, err := strconv.ParseInt(GetEnvOrDefault(key, ""), 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

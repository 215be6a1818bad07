// Copyright 2025 CruxStack
// SPDX-License-Identifier: MIT

package shared

import (
	"os"
	"strings"
)

// GetEnvDefault returns the value of an environment variable,
// or the default value if the variable is not set or empty.
func GetEnvDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool reports whether an environment variable holds a truthy value
// ("true", "1" or "yes", case-insensitive).
func GetEnvBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

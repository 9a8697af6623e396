package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ApplyEnv overrides fields of c from WIREFORM_* variables. Values in extra
// (typically read from a .env file) are used only where the process
// environment does not set the same key.
func ApplyEnv(c *Config, extra map[string]string) error {
	vars := make(map[string]string, len(extra))
	for k, v := range extra {
		vars[k] = v
	}
	for k, v := range env.ToMap(os.Environ()) {
		vars[k] = v
	}

	if err := env.ParseWithOptions(c, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("invalid environment configuration: %w", err)
	}
	return nil
}

// LoadDotEnv parses a .env file and returns key-value pairs.
// Supports: KEY=value, export KEY=value, KEY="quoted value", KEY='single quoted', # comments
// The process environment is not modified.
func LoadDotEnv(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open env file: %w", err)
	}
	defer file.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		result[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}

	return result, nil
}

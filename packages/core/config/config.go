package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config represents the wireform configuration
type Config struct {
	Timeout          int               `json:"timeout,omitempty" env:"WIREFORM_TIMEOUT"` // milliseconds
	FollowRedirects  *bool             `json:"followRedirects,omitempty" env:"WIREFORM_FOLLOW_REDIRECTS"`
	MaxRedirects     int               `json:"maxRedirects,omitempty" env:"WIREFORM_MAX_REDIRECTS"`
	ValidateSSL      *bool             `json:"validateSSL,omitempty" env:"WIREFORM_VALIDATE_SSL"`
	Proxy            string            `json:"proxy,omitempty" env:"WIREFORM_PROXY"`
	Headers          map[string]string `json:"headers,omitempty" env:"WIREFORM_HEADERS"` // Default headers for all requests
	Charset          string            `json:"charset,omitempty" env:"WIREFORM_CHARSET"` // Default body encoding
	FieldContentType *bool             `json:"fieldContentType,omitempty" env:"WIREFORM_FIELD_CONTENT_TYPE"`
	LogLevel         string            `json:"logLevel,omitempty" env:"WIREFORM_LOG_LEVEL"`
	LogFile          string            `json:"logFile,omitempty" env:"WIREFORM_LOG_FILE"`
	NoColor          *bool             `json:"noColor,omitempty" env:"WIREFORM_NO_COLOR"`
	Seed             *int64            `json:"seed,omitempty" env:"WIREFORM_SEED"` // Fixed boundary seed; nil means random
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetValidateSSL returns the validate SSL setting, defaulting to true
func (c *Config) GetValidateSSL() bool {
	return getBool(c.ValidateSSL, true)
}

// GetFieldContentType reports whether multipart text fields carry their own
// Content-Type header, defaulting to false
func (c *Config) GetFieldContentType() bool {
	return getBool(c.FieldContentType, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// TimeoutDuration converts Timeout to a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".wireform.config.json",
	"wireform.config.json",
	".wireformrc",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.Charset != "" {
		result.Charset = other.Charset
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFile != "" {
		result.LogFile = other.LogFile
	}

	// Boolean flags - only override if explicitly set in other config
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.ValidateSSL != nil {
		result.ValidateSSL = other.ValidateSSL
	}
	if other.FieldContentType != nil {
		result.FieldContentType = other.FieldContentType
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Seed != nil {
		result.Seed = other.Seed
	}

	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(c.Headers)+len(other.Headers))
		for k, v := range c.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

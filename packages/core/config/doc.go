// Package config handles configuration loading for wireform.
//
// It provides functionality for:
//   - Loading configuration from .wireform.config.json or .wireformrc files
//   - Default configuration values
//   - WIREFORM_* environment and .env file overrides
package config

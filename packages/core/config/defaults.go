package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:          30000, // 30 seconds
		FollowRedirects:  BoolPtr(true),
		MaxRedirects:     10,
		ValidateSSL:      BoolPtr(true),
		Charset:          "utf-8",
		FieldContentType: BoolPtr(false),
		LogLevel:         "warn",
		NoColor:          BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.Timeout == defaults.Timeout &&
		c.GetFollowRedirects() == defaults.GetFollowRedirects() &&
		c.MaxRedirects == defaults.MaxRedirects &&
		c.GetValidateSSL() == defaults.GetValidateSSL() &&
		c.Proxy == defaults.Proxy &&
		len(c.Headers) == 0 &&
		c.Charset == defaults.Charset &&
		c.GetFieldContentType() == defaults.GetFieldContentType() &&
		c.LogLevel == defaults.LogLevel &&
		c.LogFile == defaults.LogFile &&
		c.GetNoColor() == defaults.GetNoColor() &&
		c.Seed == nil
}

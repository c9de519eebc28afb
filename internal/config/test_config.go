package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:    DefaultEndpoint,
			Key:         "test-key",
			Limit:       DefaultLimit,
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "gifr-test/1.0",
		},
		Topics: TopicsConfig{
			Seed:    append([]string(nil), DefaultSeedTopics...),
			Persist: false,
		},
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		UI:    defaultConfig().UI,
		Media: defaultConfig().Media,
		Keys:  defaultConfig().Keys,
		Log:   LogConfig{Level: "off"},
	}
}

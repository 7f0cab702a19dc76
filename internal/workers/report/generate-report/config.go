// internal/workers/report/generate-report/config.go
package generatereport

import "fmt"

type Config struct {
	FilenamePrefix string `mapstructure:"filename_prefix"`
	LatestLabel    string `mapstructure:"latest_label"`
	MaxBodyBytes   int64  `mapstructure:"max_body_bytes"`
}

func LoadConfig() *Config {
	return &Config{
		FilenamePrefix: "solar-report-",
		LatestLabel:    "latest",
		MaxBodyBytes:   1 << 20,
	}
}

func (c *Config) Validate() error {
	if c.FilenamePrefix == "" {
		return fmt.Errorf("filename_prefix is required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}

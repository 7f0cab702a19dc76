// internal/workers/store/update-plant-price/config.go
package updateplantprice

import "fmt"

type Config struct {
	DatabasePath   string `mapstructure:"database_path"`
	DatabaseSchema string `mapstructure:"database_schema"`
	MaxBodyBytes   int64  `mapstructure:"max_body_bytes"`
}

func LoadConfig(databasePath, databaseSchema string) *Config {
	return &Config{
		DatabasePath:   databasePath,
		DatabaseSchema: databaseSchema,
		MaxBodyBytes:   1 << 20,
	}
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.DatabaseSchema == "" {
		return fmt.Errorf("database_schema is required")
	}
	return nil
}

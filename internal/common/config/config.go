// internal/common/config/config.go
package config

import (
	"path/filepath"
	"time"
)

// Renderer modes accepted by RENDERER_MODE.
const (
	RendererModeLocal  = "local"
	RendererModeRemote = "remote"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Transform TransformConfig `mapstructure:"transform"`
	Renderer  RendererConfig  `mapstructure:"renderer"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Store     StoreConfig     `mapstructure:"store"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

// TransformConfig describes the stage one engine invocation.
type TransformConfig struct {
	Command        string `mapstructure:"command"`
	Jar            string `mapstructure:"jar"`
	Source         string `mapstructure:"source"`
	Stylesheet     string `mapstructure:"stylesheet"`
	Param          string `mapstructure:"param"`
	MaxOutputBytes int64  `mapstructure:"max_output_bytes"`
}

// RendererConfig fixes the active renderer for the process lifetime.
type RendererConfig struct {
	Mode           string `mapstructure:"mode"`
	Endpoint       string `mapstructure:"endpoint"`
	Command        string `mapstructure:"command"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds, 0 = no client deadline
	MaxOutputBytes int64  `mapstructure:"max_output_bytes"`
}

// IsRemote reports whether the remote renderer is selected.
func (r RendererConfig) IsRemote() bool {
	return r.Mode == RendererModeRemote
}

type WorkspaceConfig struct {
	Prefix string `mapstructure:"prefix"`
}

// StoreConfig points at the record collections and their schemas.
type StoreConfig struct {
	DatabasePath   string `mapstructure:"database_path"`
	DatabaseSchema string `mapstructure:"database_schema"`
	FeedbackPath   string `mapstructure:"feedback_path"`
	FeedbackSchema string `mapstructure:"feedback_schema"`
}

// Resolve makes the store paths absolute relative to base.
func (s StoreConfig) Resolve(base string) StoreConfig {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	return StoreConfig{
		DatabasePath:   abs(s.DatabasePath),
		DatabaseSchema: abs(s.DatabaseSchema),
		FeedbackPath:   abs(s.FeedbackPath),
		FeedbackSchema: abs(s.FeedbackSchema),
	}
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

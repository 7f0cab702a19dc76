// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultRemoteEndpoint is the public FO rendering service used when remote
// mode is selected without an explicit endpoint.
const DefaultRemoteEndpoint = "https://fop.xml.hslu-edu.ch/fop.php"

// DefaultMaxOutputBytes is the per-stream capture ceiling for external tools.
const DefaultMaxOutputBytes int64 = 50 * 1024 * 1024

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top
// and lets environment variables override both (renderer.mode -> RENDERER_MODE).
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional overlay

	return finalize(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "solar-reports")
	v.SetDefault("app.version", "dev")
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.metrics_address", ":8080")
	v.SetDefault("transform.command", "java")
	v.SetDefault("transform.jar", filepath.Join("tools", "saxon-he.jar"))
	v.SetDefault("transform.source", filepath.Join("data", "recommendation.xml"))
	v.SetDefault("transform.stylesheet", filepath.Join("xslt", "fo", "report.fo.xsl"))
	v.SetDefault("transform.param", "dt")
	v.SetDefault("transform.max_output_bytes", DefaultMaxOutputBytes)
	v.SetDefault("renderer.command", "fop")
	v.SetDefault("renderer.timeout", 0)
	v.SetDefault("renderer.max_output_bytes", DefaultMaxOutputBytes)
	v.SetDefault("workspace.prefix", "solardecision-")
	v.SetDefault("store.database_path", filepath.Join("data", "database.json"))
	v.SetDefault("store.database_schema", filepath.Join("schema", "database.schema.json"))
	v.SetDefault("store.feedback_path", filepath.Join("data", "feedback.json"))
	v.SetDefault("store.feedback_schema", filepath.Join("schema", "feedback.schema.json"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	// No defaults here: an empty value lets the legacy variables apply.
	_ = v.BindEnv("renderer.mode")
	_ = v.BindEnv("renderer.endpoint")

	return v
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up towards the module root.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig honours the variable names used by earlier deployments.
func overrideEmptyConfig(cfg *Config) {
	if strings.TrimSpace(cfg.Renderer.Mode) == "" {
		if val := os.Getenv("PDF_RENDERER"); val != "" {
			cfg.Renderer.Mode = val
		}
	}
	if strings.TrimSpace(cfg.Renderer.Endpoint) == "" {
		if val := os.Getenv("FOP_REMOTE_URL"); val != "" {
			cfg.Renderer.Endpoint = val
		}
	}
}

// applyDefaults normalizes values and fills what is still unset.
func applyDefaults(cfg *Config) {
	cfg.Renderer.Mode = strings.ToLower(strings.TrimSpace(cfg.Renderer.Mode))
	if cfg.Renderer.Mode == "" {
		cfg.Renderer.Mode = RendererModeLocal
	}
	cfg.Renderer.Endpoint = strings.TrimSpace(cfg.Renderer.Endpoint)
	if cfg.Renderer.Endpoint == "" {
		cfg.Renderer.Endpoint = DefaultRemoteEndpoint
	}
	if cfg.Renderer.MaxOutputBytes <= 0 {
		cfg.Renderer.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if cfg.Transform.MaxOutputBytes <= 0 {
		cfg.Transform.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if cfg.Workspace.Prefix == "" {
		cfg.Workspace.Prefix = "solardecision-"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Renderer.Mode {
	case RendererModeLocal:
		if cfg.Renderer.Command == "" {
			return fmt.Errorf("renderer.command is required in local mode")
		}
	case RendererModeRemote:
		u, err := url.Parse(cfg.Renderer.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("renderer.endpoint must be an absolute http(s) URL, got %q", cfg.Renderer.Endpoint)
		}
	default:
		return fmt.Errorf("renderer.mode must be %q or %q, got %q", RendererModeLocal, RendererModeRemote, cfg.Renderer.Mode)
	}

	if cfg.Renderer.Timeout < 0 {
		return fmt.Errorf("renderer.timeout must not be negative")
	}

	if cfg.Transform.Command == "" || cfg.Transform.Source == "" || cfg.Transform.Stylesheet == "" {
		return fmt.Errorf("transform.command, transform.source and transform.stylesheet are required")
	}
	if cfg.Transform.Param == "" {
		return fmt.Errorf("transform.param is required")
	}

	if cfg.Store.DatabasePath == "" || cfg.Store.DatabaseSchema == "" {
		return fmt.Errorf("store.database_path and store.database_schema are required")
	}

	return nil
}

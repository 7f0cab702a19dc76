// internal/workers/store/submit-feedback/config.go
package submitfeedback

import "fmt"

type Config struct {
	FeedbackPath   string `mapstructure:"feedback_path"`
	FeedbackSchema string `mapstructure:"feedback_schema"`
	DefaultUser    string `mapstructure:"default_user"`
	DefaultRating  string `mapstructure:"default_rating"`
	RedirectPath   string `mapstructure:"redirect_path"`
	MaxBodyBytes   int64  `mapstructure:"max_body_bytes"`
}

func LoadConfig(feedbackPath, feedbackSchema string) *Config {
	return &Config{
		FeedbackPath:   feedbackPath,
		FeedbackSchema: feedbackSchema,
		DefaultUser:    "Anonymous",
		DefaultRating:  "5",
		RedirectPath:   "/feedback",
		MaxBodyBytes:   1 << 20,
	}
}

func (c *Config) Validate() error {
	if c.FeedbackPath == "" {
		return fmt.Errorf("feedback_path is required")
	}
	if c.FeedbackSchema == "" {
		return fmt.Errorf("feedback_schema is required")
	}
	if c.RedirectPath == "" {
		return fmt.Errorf("redirect_path is required")
	}
	return nil
}

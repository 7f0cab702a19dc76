// internal/workers/store/submit-feedback/models.go
package submitfeedback

import (
	"context"
	"time"

	"solar-reports/internal/store"
)

type Input struct {
	Username string `json:"username"`
	Rating   string `json:"rating"`
	Comment  string `json:"comment"`
}

type Output struct {
	Success bool      `json:"success"`
	User    string    `json:"user"`
	Date    time.Time `json:"date"`
}

// Appender is the part of store.ValidatedStore the handler needs.
type Appender interface {
	Append(ctx context.Context, collectionPath, schemaPath string, record store.Record) error
}

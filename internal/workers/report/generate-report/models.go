// internal/workers/report/generate-report/models.go
package generatereport

import (
	"context"

	"solar-reports/internal/report"
)

type Input struct {
	Selector string `json:"dt"`
}

type Output struct {
	Artifact report.Artifact `json:"-"`
	Filename string          `json:"filename"`
	Renderer string          `json:"renderer"`
	Bytes    int             `json:"bytes"`
}

// Generator is the part of report.Pipeline the handler needs.
type Generator interface {
	Generate(ctx context.Context, selector report.Selector) (report.Artifact, error)
	RendererName() string
}

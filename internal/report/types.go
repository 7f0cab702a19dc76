// Package report turns the recommendation document into a PDF in two
// stages: an XSLT engine produces an XSL-FO layout document, then a
// Renderer converts the layout into the final artifact.
package report

import (
	"context"
	"strings"

	"solar-reports/internal/common/process"
	"solar-reports/internal/common/workspace"
)

// Selector picks the data variant to render, typically a date/time token.
// Empty means latest. It is untrusted input.
type Selector string

// NewSelector trims surrounding whitespace.
func NewSelector(raw string) Selector {
	return Selector(strings.TrimSpace(raw))
}

func (s Selector) String() string { return string(s) }

// IsLatest reports whether no specific variant was requested.
func (s Selector) IsLatest() bool { return s == "" }

// LayoutDocument is the XSL-FO produced by stage one.
type LayoutDocument []byte

// Artifact is the rendered report handed back to the caller.
type Artifact []byte

// CommandRunner is the subset of process.Runner used here.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, opts process.Options) (*process.Result, error)
}

// LayoutTransformer produces a layout document inside ws.
type LayoutTransformer interface {
	Transform(ctx context.Context, ws *workspace.Workspace, selector Selector) (LayoutDocument, error)
}

// Renderer converts a layout document into an artifact.
type Renderer interface {
	Render(ctx context.Context, layout LayoutDocument) (Artifact, error)
	Name() string
}

const (
	layoutFileName   = "report.fo"
	artifactFileName = "report.pdf"
)

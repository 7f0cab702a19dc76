package report

import (
	"solar-reports/internal/common/config"
	"solar-reports/internal/common/logger"
	"solar-reports/internal/common/observability"
	"solar-reports/internal/common/process"
)

// Build wires the transformer, the configured renderer and the pipeline
// from application config. Server and CLI share it.
func Build(cfg *config.Config, obs *observability.Observability, log logger.Logger) *Pipeline {
	runner := process.NewRunner(log, cfg.Transform.MaxOutputBytes)
	transformer := NewTransformer(cfg.Transform, runner, log)
	renderer := NewRenderer(cfg.Renderer, runner, cfg.Workspace.Prefix, log)
	return NewPipeline(transformer, renderer, cfg.Workspace.Prefix, obs, log)
}

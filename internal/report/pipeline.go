package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
	"solar-reports/internal/common/metrics"
	"solar-reports/internal/common/observability"
	"solar-reports/internal/common/workspace"
)

const (
	stageTransform = "transform"
	stageRender    = "render"
)

// Pipeline composes the transformer and the active renderer. It keeps no
// per-run state, so one instance serves all concurrent requests.
type Pipeline struct {
	transformer LayoutTransformer
	renderer    Renderer
	prefix      string
	obs         *observability.Observability
	logger      logger.Logger
}

func NewPipeline(transformer LayoutTransformer, renderer Renderer, workspacePrefix string, obs *observability.Observability, log logger.Logger) *Pipeline {
	if obs == nil {
		obs = observability.NewNoop("report-pipeline")
	}
	return &Pipeline{
		transformer: transformer,
		renderer:    renderer,
		prefix:      workspacePrefix,
		obs:         obs,
		logger:      log,
	}
}

// RendererName reports which renderer variant is active.
func (p *Pipeline) RendererName() string {
	return p.renderer.Name()
}

// Generate runs both stages once. Errors from either stage are returned
// unchanged and no partial artifact is ever returned.
func (p *Pipeline) Generate(ctx context.Context, selector Selector) (Artifact, error) {
	runID := uuid.NewString()
	log := p.logger.With(logger.Fields{
		"runId":    runID,
		"renderer": p.renderer.Name(),
		"selector": selector.String(),
	})

	metrics.ReportsActive.Inc()
	defer metrics.ReportsActive.Dec()

	ctx, span := p.obs.StartSpan(ctx, "report.generate",
		attribute.String("report.run_id", runID),
		attribute.String("report.renderer", p.renderer.Name()),
	)
	if traceID := observability.TraceID(ctx); traceID != "" {
		log = log.With(logger.Fields{"traceId": traceID})
	}

	log.Info("report generation started", nil)
	started := time.Now()

	artifact, stage, err := p.run(ctx, selector)
	observability.EndSpan(span, err)

	if err != nil {
		code := apperrors.ToStandardError(err).Code
		metrics.ReportsGenerated.WithLabelValues(p.renderer.Name(), "failed").Inc()
		metrics.ReportFailures.WithLabelValues(stage, string(code)).Inc()
		p.obs.RecordRun(ctx, p.renderer.Name(), "failed")
		log.Error("report generation failed", logger.Fields{
			"stage":     stage,
			"errorCode": string(code),
			"error":     err,
		})
		return nil, err
	}

	metrics.ReportsGenerated.WithLabelValues(p.renderer.Name(), "success").Inc()
	p.obs.RecordRun(ctx, p.renderer.Name(), "success")
	log.Info("report generation completed", logger.Fields{
		"bytes":      len(artifact),
		"durationMs": time.Since(started).Milliseconds(),
	})
	return artifact, nil
}

func (p *Pipeline) run(ctx context.Context, selector Selector) (Artifact, string, error) {
	layout, err := p.transform(ctx, selector)
	if err != nil {
		return nil, stageTransform, err
	}

	artifact, err := p.render(ctx, layout)
	if err != nil {
		return nil, stageRender, err
	}
	return artifact, "", nil
}

// transform owns the stage one workspace; it is gone before rendering starts.
func (p *Pipeline) transform(ctx context.Context, selector Selector) (LayoutDocument, error) {
	ctx, span := p.obs.StartSpan(ctx, "report.transform")
	started := time.Now()

	var layout LayoutDocument
	err := workspace.With(p.prefix, p.logger, func(ws *workspace.Workspace) error {
		var err error
		layout, err = p.transformer.Transform(ctx, ws, selector)
		return err
	})

	p.recordStage(ctx, stageTransform, started, err)
	observability.EndSpan(span, err)
	return layout, err
}

func (p *Pipeline) render(ctx context.Context, layout LayoutDocument) (Artifact, error) {
	ctx, span := p.obs.StartSpan(ctx, "report.render", attribute.Int("report.layout_bytes", len(layout)))
	started := time.Now()

	artifact, err := p.renderer.Render(ctx, layout)
	if err == nil && len(artifact) == 0 {
		artifact, err = nil, apperrors.NewExternalProcessError(p.renderer.Name()+" renderer", "", errors.New("empty artifact"))
	}

	p.recordStage(ctx, stageRender, started, err)
	observability.EndSpan(span, err)
	return artifact, err
}

func (p *Pipeline) recordStage(ctx context.Context, stage string, started time.Time, err error) {
	elapsed := time.Since(started)
	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.ReportStageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	p.obs.RecordStageDuration(ctx, stage, elapsed, status)
}

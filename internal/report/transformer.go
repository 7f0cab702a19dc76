package report

import (
	"context"
	"errors"
	"path/filepath"

	"solar-reports/internal/common/config"
	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
	"solar-reports/internal/common/process"
	"solar-reports/internal/common/workspace"
)

// Transformer runs the XSLT engine (Saxon by default) against the fixed
// source document and stylesheet.
type Transformer struct {
	cfg    config.TransformConfig
	runner CommandRunner
	logger logger.Logger
}

// NewTransformer resolves the configured paths against the working
// directory once, so every run uses the same absolute inputs.
func NewTransformer(cfg config.TransformConfig, runner CommandRunner, log logger.Logger) *Transformer {
	cfg.Jar = absPath(cfg.Jar)
	cfg.Source = absPath(cfg.Source)
	cfg.Stylesheet = absPath(cfg.Stylesheet)
	return &Transformer{
		cfg:    cfg,
		runner: runner,
		logger: log.With(logger.Fields{"component": "transformer"}),
	}
}

func absPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Args builds the engine argv. The selector only ever appears as the value
// of the single name=value parameter.
func (t *Transformer) Args(outputPath string, selector Selector) []string {
	args := make([]string, 0, 7)
	if t.cfg.Jar != "" {
		args = append(args, "-jar", t.cfg.Jar)
	}
	return append(args,
		"-s:"+t.cfg.Source,
		"-xsl:"+t.cfg.Stylesheet,
		"-o:"+outputPath,
		t.cfg.Param+"="+selector.String(),
	)
}

// Transform writes the layout document into ws and returns its bytes.
func (t *Transformer) Transform(ctx context.Context, ws *workspace.Workspace, selector Selector) (LayoutDocument, error) {
	outputPath := ws.Path(layoutFileName)

	_, err := t.runner.Run(ctx, t.cfg.Command, t.Args(outputPath, selector), process.Options{
		MaxOutputBytes: t.cfg.MaxOutputBytes,
	})
	if err != nil {
		return nil, err
	}

	layout, err := ws.ReadFile(layoutFileName)
	if err != nil {
		return nil, err
	}
	if len(layout) == 0 {
		return nil, apperrors.NewExternalProcessError(t.cfg.Command, "", errors.New("transformation produced an empty layout document"))
	}

	t.logger.Debug("layout document produced", logger.Fields{
		"selector": selector.String(),
		"bytes":    len(layout),
	})
	return LayoutDocument(layout), nil
}

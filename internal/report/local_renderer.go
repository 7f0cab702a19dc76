package report

import (
	"context"
	"errors"

	apperrors "solar-reports/internal/common/errors"
	"solar-reports/internal/common/logger"
	"solar-reports/internal/common/process"
	"solar-reports/internal/common/workspace"
)

// LocalRenderer shells out to a local FOP binary.
type LocalRenderer struct {
	command   string
	maxOutput int64
	runner    CommandRunner
	prefix    string
	logger    logger.Logger
}

func NewLocalRenderer(command string, maxOutput int64, runner CommandRunner, workspacePrefix string, log logger.Logger) *LocalRenderer {
	return &LocalRenderer{
		command:   command,
		maxOutput: maxOutput,
		runner:    runner,
		prefix:    workspacePrefix,
		logger:    log.With(logger.Fields{"component": "renderer", "renderer": "local"}),
	}
}

func (r *LocalRenderer) Name() string { return "local" }

// Render stages layout in a fresh workspace, runs `fop -fo in -pdf out`
// and reads the PDF back. The workspace is removed on every path.
func (r *LocalRenderer) Render(ctx context.Context, layout LayoutDocument) (Artifact, error) {
	var artifact Artifact

	err := workspace.With(r.prefix, r.logger, func(ws *workspace.Workspace) error {
		inputPath, err := ws.WriteFile(layoutFileName, layout)
		if err != nil {
			return err
		}
		outputPath := ws.Path(artifactFileName)

		if _, err := r.runner.Run(ctx, r.command, []string{"-fo", inputPath, "-pdf", outputPath}, process.Options{
			MaxOutputBytes: r.maxOutput,
		}); err != nil {
			return err
		}

		data, err := ws.ReadFile(artifactFileName)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return apperrors.NewExternalProcessError(r.command, "", errors.New("renderer produced an empty artifact"))
		}
		artifact = Artifact(data)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("artifact rendered", logger.Fields{"bytes": len(artifact)})
	return artifact, nil
}

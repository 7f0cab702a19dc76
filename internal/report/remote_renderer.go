package report

import (
	"context"

	apperrors "solar-reports/internal/common/errors"
	apphttp "solar-reports/internal/common/http"
	"solar-reports/internal/common/logger"
)

const layoutContentType = "application/xml"

// RemoteRenderer posts the layout document to an FO rendering service and
// takes the response body as the artifact. It uses no local files.
type RemoteRenderer struct {
	endpoint string
	client   *apphttp.Client
	logger   logger.Logger
}

func NewRemoteRenderer(endpoint string, client *apphttp.Client, log logger.Logger) *RemoteRenderer {
	return &RemoteRenderer{
		endpoint: endpoint,
		client:   client,
		logger:   log.With(logger.Fields{"component": "renderer", "renderer": "remote"}),
	}
}

func (r *RemoteRenderer) Name() string { return "remote" }

func (r *RemoteRenderer) Render(ctx context.Context, layout LayoutDocument) (Artifact, error) {
	status, body, err := r.client.Post(context.WithoutCancel(ctx), r.endpoint, layoutContentType, layout)
	if err != nil {
		r.logger.Error("remote renderer unreachable", logger.Fields{
			"endpoint": r.endpoint,
			"error":    err,
		})
		return nil, apperrors.NewRemoteRenderError(status, err.Error())
	}

	if status < 200 || status > 299 {
		renderErr := apperrors.NewRemoteRenderError(status, string(body))
		r.logger.Error("remote renderer rejected layout", logger.Fields{
			"endpoint": r.endpoint,
			"status":   status,
			"body":     renderErr.Body,
		})
		return nil, renderErr
	}

	if len(body) == 0 {
		return nil, apperrors.NewRemoteRenderError(status, "empty response body")
	}

	r.logger.Debug("artifact rendered", logger.Fields{"bytes": len(body)})
	return Artifact(body), nil
}

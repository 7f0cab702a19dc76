package report

import (
	"solar-reports/internal/common/config"
	apphttp "solar-reports/internal/common/http"
	"solar-reports/internal/common/logger"
)

// NewRenderer picks the renderer variant for the process lifetime. It is
// called once at startup; nothing branches on the mode afterwards.
func NewRenderer(cfg config.RendererConfig, runner CommandRunner, workspacePrefix string, log logger.Logger) Renderer {
	if cfg.IsRemote() {
		return NewRemoteRenderer(cfg.Endpoint, apphttp.NewClient(config.GetDuration(cfg.Timeout)), log)
	}
	return NewLocalRenderer(cfg.Command, cfg.MaxOutputBytes, runner, workspacePrefix, log)
}

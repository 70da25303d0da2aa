package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/qbique/internal/domain/model"
	"github.com/ericfisherdev/qbique/internal/domain/port/driven"
)

// ServerVersionUnavailable is reported when the version probe fails.
const ServerVersionUnavailable = "unavailable"

type versionBody struct {
	CurrentVersion string `json:"current_version"`
	Description    string `json:"description"`
}

// ServerInfoService probes the remote platform for health and version.
type ServerInfoService struct {
	gateway driven.APIGateway
	logger  *slog.Logger
}

// NewServerInfoService creates a ServerInfoService.
func NewServerInfoService(gateway driven.APIGateway, logger *slog.Logger) *ServerInfoService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServerInfoService{gateway: gateway, logger: logger}
}

// Health fetches the server health document.
func (s *ServerInfoService) Health(ctx context.Context, opts model.CallOptions) (model.ServerHealth, error) {
	var h model.ServerHealth
	if err := callJSON(ctx, s.gateway, http.MethodGet, "/health", nil, &h, opts); err != nil {
		return model.ServerHealth{}, fmt.Errorf("get health: %w", err)
	}
	return h, nil
}

// Version reports the CLI version and, when reachable, the server version.
// Server failures are never returned as errors.
func (s *ServerInfoService) Version(ctx context.Context, cliVersion string, opts model.CallOptions) model.VersionReport {
	report := model.VersionReport{CLIVersion: cliVersion}

	var body versionBody
	if err := callJSON(ctx, s.gateway, http.MethodGet, "/api/version/current", nil, &body, opts); err != nil {
		s.logger.Debug("server version probe failed", "error", err)
		report.ServerVersion = ServerVersionUnavailable
		report.ServerDescription = "Could not connect to server"
		return report
	}

	report.ServerVersion = body.CurrentVersion
	report.ServerDescription = body.Description
	return report
}

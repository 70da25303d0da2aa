package jsonfile

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/qbique/internal/domain/model"
	"github.com/ericfisherdev/qbique/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SettingsStore = (*SettingsRepo)(nil)

// SettingsRepo persists model.Settings as config.json.
type SettingsRepo struct {
	dir    *Dir
	logger *slog.Logger
}

// NewSettingsRepo creates a new SettingsRepo. Recovered loads are reported on
// logger; nil means slog.Default().
func NewSettingsRepo(dir *Dir, logger *slog.Logger) *SettingsRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsRepo{dir: dir, logger: logger}
}

// Load reads config.json, overlaying it on the defaults.
func (r *SettingsRepo) Load(_ context.Context) (model.Settings, model.LoadReport) {
	settings := model.DefaultSettings()
	report := readDocument(r.dir.path(settingsFile), &settings)
	if report.Status != model.LoadOK {
		if report.Recovered() {
			r.logger.Warn("settings document unreadable, using defaults", "path", report.Path, "detail", report.Detail)
		}
		return model.DefaultSettings(), report
	}
	return settings.WithDefaults(), report
}

// Save writes the full settings record.
func (r *SettingsRepo) Save(_ context.Context, settings model.Settings) error {
	return writeDocument(r.dir.path(settingsFile), settings)
}

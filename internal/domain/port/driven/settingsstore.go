package driven

import (
	"context"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// SettingsStore defines the driven port for the global settings document.
type SettingsStore interface {
	// Load returns the persisted settings with defaults filling any gaps.
	// Returns model.DefaultSettings() if the document is missing or corrupt.
	Load(ctx context.Context) (model.Settings, model.LoadReport)

	// Save persists the full settings record.
	Save(ctx context.Context, settings model.Settings) error
}

package driven

import (
	"context"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// LicenseStore defines the driven port for the entitlement cache document,
// keyed by plugin name.
type LicenseStore interface {
	Load(ctx context.Context) (map[string]model.License, model.LoadReport)
	Save(ctx context.Context, licenses map[string]model.License) error
}

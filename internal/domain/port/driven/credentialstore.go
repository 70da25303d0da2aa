package driven

import (
	"context"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// CredentialStore defines the driven port for the per-profile credential
// vault. The vault is read and written as one document.
type CredentialStore interface {
	// Load returns the persisted vault. A missing or unreadable document
	// yields an empty vault; the report says which case applied.
	Load(ctx context.Context) (model.Vault, model.LoadReport)

	// Save replaces the persisted vault with vault and restricts the
	// backing file to owner-only access.
	Save(ctx context.Context, vault model.Vault) error
}

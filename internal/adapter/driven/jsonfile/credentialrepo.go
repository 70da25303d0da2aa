package jsonfile

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/qbique/internal/domain/model"
	"github.com/ericfisherdev/qbique/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo persists the credential vault as credentials.json. The file
// is restricted to owner read/write after every save.
type CredentialRepo struct {
	dir    *Dir
	logger *slog.Logger
}

// NewCredentialRepo creates a new CredentialRepo. Recovered loads are reported on
// logger; nil means slog.Default().
func NewCredentialRepo(dir *Dir, logger *slog.Logger) *CredentialRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialRepo{dir: dir, logger: logger}
}

// Load reads credentials.json. Returns an empty vault if the file is missing
// or unreadable.
func (r *CredentialRepo) Load(_ context.Context) (model.Vault, model.LoadReport) {
	var vault model.Vault
	report := readDocument(r.dir.path(credentialsFile), &vault)
	if report.Status != model.LoadOK || vault == nil {
		if report.Recovered() {
			r.logger.Warn("credential vault unreadable, starting empty", "path", report.Path, "detail", report.Detail)
		}
		return model.Vault{}, report
	}
	return vault, report
}

// Save writes the full vault and hardens the file permissions.
func (r *CredentialRepo) Save(_ context.Context, vault model.Vault) error {
	path := r.dir.path(credentialsFile)
	if vault == nil {
		vault = model.Vault{}
	}
	if err := writeDocument(path, vault); err != nil {
		return err
	}
	return restrictToOwner(path)
}

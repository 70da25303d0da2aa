package jsonfile

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/qbique/internal/domain/model"
	"github.com/ericfisherdev/qbique/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LicenseStore = (*LicenseRepo)(nil)

// LicenseRepo persists the entitlement cache as licenses.json.
type LicenseRepo struct {
	dir    *Dir
	logger *slog.Logger
}

// NewLicenseRepo creates a new LicenseRepo. Recovered loads are reported on
// logger; nil means slog.Default().
func NewLicenseRepo(dir *Dir, logger *slog.Logger) *LicenseRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &LicenseRepo{dir: dir, logger: logger}
}

// Load reads licenses.json. Returns an empty cache if the file is missing or
// unreadable.
func (r *LicenseRepo) Load(_ context.Context) (map[string]model.License, model.LoadReport) {
	var licenses map[string]model.License
	report := readDocument(r.dir.path(licensesFile), &licenses)
	if report.Status != model.LoadOK || licenses == nil {
		if report.Recovered() {
			r.logger.Warn("license cache unreadable, starting empty", "path", report.Path, "detail", report.Detail)
		}
		return map[string]model.License{}, report
	}
	return licenses, report
}

// Save writes the full cache.
func (r *LicenseRepo) Save(_ context.Context, licenses map[string]model.License) error {
	if licenses == nil {
		licenses = map[string]model.License{}
	}
	return writeDocument(r.dir.path(licensesFile), licenses)
}

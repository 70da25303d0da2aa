package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ericfisherdev/qbique/internal/domain/model"
	"github.com/ericfisherdev/qbique/internal/domain/port/driven"
)

const (
	pricingURL  = "https://qbique.io/pricing"
	accountURL  = "https://qbique.io/account/licenses"
	activateCmd = "qbique license activate"
)

// LicenseService is the local entitlement cache. Activation is
// trust-on-first-use: no cryptographic verification is performed.
type LicenseService struct {
	store  driven.LicenseStore
	logger *slog.Logger
	now    func() time.Time

	cache map[string]model.License
}

// NewLicenseService creates a LicenseService with an empty cache. Call Load
// to read the persisted document.
func NewLicenseService(store driven.LicenseStore, logger *slog.Logger) *LicenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LicenseService{
		store:  store,
		logger: logger,
		now:    time.Now,
		cache:  map[string]model.License{},
	}
}

// SetClock replaces the time source used for expiry and staleness checks.
func (s *LicenseService) SetClock(now func() time.Time) {
	s.now = now
}

// Load reads the license document. Absent or corrupt documents yield an
// empty cache.
func (s *LicenseService) Load(ctx context.Context) model.LoadReport {
	cache, report := s.store.Load(ctx)
	if cache == nil {
		cache = map[string]model.License{}
	}
	s.cache = cache
	s.logger.Debug("license cache loaded", "status", report.Status, "entries", len(cache))
	return report
}

// Check resolves the entitlement state of plugin at the given tier. The
// order of rules matters: free tier, missing entry, revoked entry, past
// expiry, then valid with an advisory staleness flag.
func (s *LicenseService) Check(plugin string, tier model.Tier) model.LicenseCheck {
	if tier == model.TierFree {
		return model.LicenseCheck{Status: model.LicenseFree}
	}

	entry, ok := s.cache[plugin]
	if !ok {
		return model.LicenseCheck{
			Status: model.LicenseMissing,
			Message: fmt.Sprintf("%s requires a %s license.\n  Activate: %s %s <license-key>\n  Purchase: %s",
				plugin, tier, activateCmd, plugin, pricingURL),
		}
	}

	if !entry.Valid {
		return model.LicenseCheck{
			Status: model.LicenseExpired,
			Message: fmt.Sprintf("License for %s is invalid or revoked.\n  Renew: %s",
				plugin, accountURL),
		}
	}

	now := s.now()
	if entry.ExpiresAt != nil && entry.ExpiresAt.Before(now) {
		return model.LicenseCheck{
			Status: model.LicenseExpired,
			Message: fmt.Sprintf("License for %s expired on %s.\n  Renew: %s",
				plugin, entry.ExpiresAt.UTC().Format(time.RFC3339), accountURL),
		}
	}

	result := model.LicenseCheck{Status: model.LicenseValid}
	if now.Sub(entry.CheckedAt) > model.LicenseFreshness {
		result.Stale = true
		result.Message = fmt.Sprintf("License for %s was last checked on %s; reconnect to refresh it.",
			plugin, entry.CheckedAt.UTC().Format(time.DateOnly))
	}
	return result
}

// Activate records plugin as licensed at tier. The entry is replaced
// wholesale, never merged.
func (s *LicenseService) Activate(ctx context.Context, plugin, licenseKey string, tier model.Tier) error {
	if plugin == "" || licenseKey == "" {
		return &model.ConfigError{
			Key:    "license",
			Reason: "plugin name and license key are required",
			Hint:   activateCmd + " <plugin-name> <license-key>",
		}
	}
	if tier == model.TierFree || !tier.Valid() {
		return &model.ConfigError{
			Key:    "tier",
			Reason: fmt.Sprintf("cannot activate a license for tier %q", tier),
			Hint:   "qbique plugins available",
		}
	}

	return s.Record(ctx, model.License{
		Plugin:    plugin,
		Tier:      tier,
		Valid:     true,
		ExpiresAt: nil,
		CheckedAt: s.now().UTC(),
	})
}

// Record replaces the cache entry for license.Plugin and persists the cache.
func (s *LicenseService) Record(ctx context.Context, license model.License) error {
	next := s.clone()
	next[license.Plugin] = license
	return s.save(ctx, next)
}

// Deactivate removes the entry for plugin. Removing an unknown plugin still
// rewrites the document.
func (s *LicenseService) Deactivate(ctx context.Context, plugin string) error {
	next := s.clone()
	delete(next, plugin)
	return s.save(ctx, next)
}

// List returns every cached entry sorted by plugin name.
func (s *LicenseService) List() []model.License {
	out := make([]model.License, 0, len(s.cache))
	for _, l := range s.cache {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Plugin < out[j].Plugin })
	return out
}

func (s *LicenseService) clone() map[string]model.License {
	next := make(map[string]model.License, len(s.cache)+1)
	for k, v := range s.cache {
		next[k] = v
	}
	return next
}

func (s *LicenseService) save(ctx context.Context, next map[string]model.License) error {
	if err := s.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save licenses: %w", err)
	}
	s.cache = next
	return nil
}

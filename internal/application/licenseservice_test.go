package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/qbique/internal/application"
	"github.com/ericfisherdev/qbique/internal/domain/model"
)

func newLicenseService(t *testing.T, cache map[string]model.License) (*application.LicenseService, *mockLicenseStore) {
	t.Helper()
	store := &mockLicenseStore{cache: cache, report: model.LoadReport{Status: model.LoadOK}}
	svc := application.NewLicenseService(store, nil)
	svc.SetClock(func() time.Time { return fixedNow })
	svc.Load(context.Background())
	return svc, store
}

func TestLicenseService_FreeTierIgnoresCache(t *testing.T) {
	svc, _ := newLicenseService(t, map[string]model.License{
		"@qbique/plugin-report-pdf": {Plugin: "@qbique/plugin-report-pdf", Valid: false},
	})

	got := svc.Check("@qbique/plugin-report-pdf", model.TierFree)

	assert.Equal(t, model.LicenseFree, got.Status)
	assert.Empty(t, got.Message)
}

func TestLicenseService_Check(t *testing.T) {
	yesterday := fixedNow.Add(-24 * time.Hour)
	nextYear := fixedNow.AddDate(1, 0, 0)

	tests := []struct {
		name      string
		entry     *model.License
		want      model.LicenseStatus
		wantStale bool
		wantMsg   string
	}{
		{name: "missing", want: model.LicenseMissing, wantMsg: "qbique license activate plugin-x <license-key>"},
		{
			name:    "revoked",
			entry:   &model.License{Valid: false, CheckedAt: fixedNow},
			want:    model.LicenseExpired,
			wantMsg: "invalid or revoked",
		},
		{
			name:    "expired yesterday",
			entry:   &model.License{Valid: true, ExpiresAt: &yesterday, CheckedAt: fixedNow},
			want:    model.LicenseExpired,
			wantMsg: "expired on 2026-02-28",
		},
		{
			name:  "future expiry",
			entry: &model.License{Valid: true, ExpiresAt: &nextYear, CheckedAt: fixedNow},
			want:  model.LicenseValid,
		},
		{
			name:  "no expiry",
			entry: &model.License{Valid: true, CheckedAt: fixedNow.Add(-6 * 24 * time.Hour)},
			want:  model.LicenseValid,
		},
		{
			name:      "stale but valid",
			entry:     &model.License{Valid: true, CheckedAt: fixedNow.Add(-8 * 24 * time.Hour)},
			want:      model.LicenseValid,
			wantStale: true,
			wantMsg:   "last checked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := map[string]model.License{}
			if tt.entry != nil {
				e := *tt.entry
				e.Plugin = "plugin-x"
				e.Tier = model.TierPremium
				cache["plugin-x"] = e
			}
			svc, _ := newLicenseService(t, cache)

			got := svc.Check("plugin-x", model.TierPremium)

			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.wantStale, got.Stale)
			if tt.wantMsg != "" {
				assert.Contains(t, got.Message, tt.wantMsg)
			} else {
				assert.Empty(t, got.Message)
			}
		})
	}
}

func TestLicenseService_ActivateThenCheck(t *testing.T) {
	ctx := context.Background()
	svc, store := newLicenseService(t, nil)

	require.NoError(t, svc.Activate(ctx, "plugin-x", "LIC-123", model.TierPremium))

	assert.Equal(t, model.LicenseValid, svc.Check("plugin-x", model.TierPremium).Status)
	stored := store.cache["plugin-x"]
	assert.True(t, stored.Valid)
	assert.Nil(t, stored.ExpiresAt)
	assert.Equal(t, fixedNow, stored.CheckedAt)
	assert.Equal(t, model.TierPremium, stored.Tier)
}

func TestLicenseService_RecordedExpiryWins(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLicenseService(t, nil)
	require.NoError(t, svc.Activate(ctx, "plugin-x", "LIC-123", model.TierPremium))

	yesterday := fixedNow.Add(-24 * time.Hour)
	entry := svc.List()[0]
	entry.ExpiresAt = &yesterday
	require.NoError(t, svc.Record(ctx, entry))

	assert.Equal(t, model.LicenseExpired, svc.Check("plugin-x", model.TierPremium).Status)
}

func TestLicenseService_ActivateRejectsFreeTierAndMissingKey(t *testing.T) {
	ctx := context.Background()
	svc, store := newLicenseService(t, nil)

	var cfgErr *model.ConfigError
	require.ErrorAs(t, svc.Activate(ctx, "plugin-x", "", model.TierPremium), &cfgErr)
	require.ErrorAs(t, svc.Activate(ctx, "plugin-x", "LIC", model.TierFree), &cfgErr)
	assert.Equal(t, 0, store.saves)
}

func TestLicenseService_DeactivateAndList(t *testing.T) {
	ctx := context.Background()
	svc, store := newLicenseService(t, nil)

	require.NoError(t, svc.Activate(ctx, "zeta", "k", model.TierPremium))
	require.NoError(t, svc.Activate(ctx, "alpha", "k", model.TierEnterprise))

	list := svc.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Plugin)
	assert.Equal(t, "zeta", list[1].Plugin)

	require.NoError(t, svc.Deactivate(ctx, "zeta"))
	assert.Equal(t, model.LicenseMissing, svc.Check("zeta", model.TierPremium).Status)
	assert.NotContains(t, store.cache, "zeta")
}

func TestLicenseService_LoadCorruptYieldsEmptyCache(t *testing.T) {
	store := &mockLicenseStore{report: model.LoadReport{Status: model.LoadCorrupt, Detail: "bad json"}}
	svc := application.NewLicenseService(store, nil)

	report := svc.Load(context.Background())

	assert.True(t, report.Recovered())
	assert.Empty(t, svc.List())
}

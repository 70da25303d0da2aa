package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/qbique/internal/application"
	"github.com/ericfisherdev/qbique/internal/domain/model"
)

type stubLicenses map[string]model.LicenseCheck

func (s stubLicenses) Check(plugin string, tier model.Tier) model.LicenseCheck {
	if tier == model.TierFree {
		return model.LicenseCheck{Status: model.LicenseFree}
	}
	if r, ok := s[plugin]; ok {
		return r
	}
	return model.LicenseCheck{Status: model.LicenseMissing, Message: "requires a license"}
}

const (
	quantum   = "@qbique/plugin-quantum"
	riskPro   = "@qbique/plugin-risk-pro"
	reportPDF = "@qbique/plugin-report-pdf"
	bloomberg = "@qbique/plugin-data-bloomberg"
)

func TestFeatureRegistry_CheckFeature(t *testing.T) {
	reg := application.NewFeatureRegistry(stubLicenses{}, nil)

	got := reg.CheckFeature("qaoa")
	assert.False(t, got.Allowed)
	assert.Contains(t, got.Message, quantum)
	assert.Contains(t, got.Message, "(Premium plugin)")
	assert.Contains(t, got.Message, "qbique plugins install "+quantum)

	got = reg.CheckFeature("blp-query")
	assert.False(t, got.Allowed)
	assert.Contains(t, got.Message, "(Enterprise license required)")

	assert.True(t, reg.CheckFeature("pdf-report").Allowed)
	assert.True(t, reg.CheckFeature("classical-solver").Allowed)
}

func TestFeatureRegistry_CheckFeatureInstalled(t *testing.T) {
	reg := application.NewFeatureRegistry(stubLicenses{}, func(name string) bool { return name == riskPro })

	assert.True(t, reg.CheckFeature("var-model").Allowed)
	assert.False(t, reg.CheckFeature("vqe").Allowed)
}

func TestFeatureRegistry_CheckEngine(t *testing.T) {
	reg := application.NewFeatureRegistry(stubLicenses{}, nil)

	assert.False(t, reg.CheckEngine("quantum").Allowed)
	assert.True(t, reg.CheckEngine("classical").Allowed)
}

func TestFeatureRegistry_CheckPluginAccess(t *testing.T) {
	licenses := stubLicenses{
		quantum: {Status: model.LicenseValid, Stale: true, Message: "last checked long ago"},
		riskPro: {Status: model.LicenseExpired, Message: "Renew: https://qbique.io/account/licenses"},
	}
	reg := application.NewFeatureRegistry(licenses, nil)

	tests := []struct {
		name        string
		plugin      string
		wantAllowed bool
		wantMsg     string
	}{
		{name: "unknown", plugin: "@qbique/plugin-nope", wantAllowed: false, wantMsg: "Unknown plugin"},
		{name: "free", plugin: reportPDF, wantAllowed: true},
		{name: "stale valid", plugin: quantum, wantAllowed: true, wantMsg: "last checked"},
		{name: "expired", plugin: riskPro, wantAllowed: false, wantMsg: "Renew"},
		{name: "missing", plugin: bloomberg, wantAllowed: false, wantMsg: "requires a license"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.CheckPluginAccess(tt.plugin)
			assert.Equal(t, tt.wantAllowed, got.Allowed)
			if tt.wantMsg != "" {
				assert.Contains(t, got.Message, tt.wantMsg)
			}
		})
	}
}

func TestFeatureRegistry_ListAndInfo(t *testing.T) {
	reg := application.NewFeatureRegistry(stubLicenses{}, nil)

	list := reg.ListAvailable()
	require.Len(t, list, 4)
	assert.Equal(t, quantum, list[0].Name)

	list[0].Name = "mutated"
	p, ok := reg.PluginInfo(quantum)
	require.True(t, ok)
	assert.Equal(t, model.TierPremium, p.Tier)

	_, ok = reg.PluginInfo("nope")
	assert.False(t, ok)

	assert.Equal(t, model.TierEnterprise, reg.TierOf(bloomberg))
	assert.Equal(t, model.TierPremium, reg.TierOf("third-party"))
}

func TestFeatureRegistry_WithLicenseService(t *testing.T) {
	svc, _ := newLicenseService(t, map[string]model.License{
		quantum: {Plugin: quantum, Tier: model.TierPremium, Valid: true, CheckedAt: fixedNow},
	})
	reg := application.NewFeatureRegistry(svc, nil)

	assert.True(t, reg.CheckPluginAccess(quantum).Allowed)
	assert.False(t, reg.CheckPluginAccess(riskPro).Allowed)
}

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

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newConfigService(t *testing.T, vault model.Vault) (*application.ConfigService, *mockSettingsStore, *mockCredentialStore) {
	t.Helper()
	settings := newMockSettingsStore()
	creds := newMockCredentialStore(vault)
	svc := application.NewConfigService(settings, creds, nil)
	svc.SetClock(func() time.Time { return fixedNow })
	svc.Load(context.Background())
	return svc, settings, creds
}

func TestConfigService_LoadDefaultsWhenAbsent(t *testing.T) {
	svc, _, _ := newConfigService(t, nil)

	assert.Equal(t, model.DefaultSettings(), svc.Settings())
	assert.Equal(t, "default", svc.ActiveProfile())
	assert.Empty(t, svc.ListProfiles())

	_, ok := svc.APIKey("")
	assert.False(t, ok)
}

func TestConfigService_LoadReportsCorruptDocument(t *testing.T) {
	settings := newMockSettingsStore()
	settings.report = model.LoadReport{Path: "config.json", Status: model.LoadCorrupt, Detail: "unexpected EOF"}
	svc := application.NewConfigService(settings, newMockCredentialStore(nil), nil)

	summary := svc.Load(context.Background())

	assert.True(t, summary.Settings.Recovered())
	assert.Equal(t, model.LoadAbsent, summary.Credentials.Status)
}

func TestConfigService_SetFromString(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		want    string
	}{
		{name: "endpoint", key: "endpoint", value: "https://api.qbique.io", want: "https://api.qbique.io"},
		{name: "endpoint trailing slash", key: "endpoint", value: "https://api.qbique.io/", want: "https://api.qbique.io"},
		{name: "endpoint relative", key: "endpoint", value: "api.qbique.io", wantErr: true},
		{name: "output json", key: "defaultOutput", value: "json", want: "json"},
		{name: "output xml", key: "defaultOutput", value: "xml", wantErr: true},
		{name: "timeout", key: "timeout", value: "60000", want: "60000"},
		{name: "timeout text", key: "timeout", value: "abc", wantErr: true},
		{name: "timeout zero", key: "timeout", value: "0", wantErr: true},
		{name: "profile", key: "profile", value: "staging", want: "staging"},
		{name: "profile empty", key: "profile", value: " ", wantErr: true},
		{name: "unknown key", key: "color", value: "red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newConfigService(t, nil)

			err := svc.SetFromString(context.Background(), tt.key, tt.value)
			if tt.wantErr {
				var cfgErr *model.ConfigError
				require.ErrorAs(t, err, &cfgErr)
				assert.NotEmpty(t, cfgErr.Remediation())
				assert.Empty(t, store.saves)
				assert.Equal(t, model.DefaultSettings(), svc.Settings())
				return
			}

			require.NoError(t, err)
			key, err := model.ParseSettingKey(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, svc.Get(key))
			require.Len(t, store.saves, 1)
			assert.Equal(t, svc.Persisted(), store.saves[0])
		})
	}
}

func TestConfigService_UnknownKeyListsValidKeys(t *testing.T) {
	svc, _, _ := newConfigService(t, nil)

	err := svc.SetFromString(context.Background(), "color", "red")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint, defaultOutput, timeout, profile")
}

func TestConfigService_TypedSetters(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConfigService(t, nil)

	require.NoError(t, svc.SetTimeout(ctx, 45000))
	require.NoError(t, svc.SetDefaultOutput(ctx, model.OutputYAML))
	require.NoError(t, svc.SetEndpoint(ctx, "http://10.0.0.5:8001"))

	s := svc.Settings()
	assert.Equal(t, 45000, s.TimeoutMs)
	assert.Equal(t, model.OutputYAML, s.DefaultOutput)
	assert.Equal(t, "http://10.0.0.5:8001", s.Endpoint)

	require.Error(t, svc.SetDefaultOutput(ctx, model.OutputFormat("csv")))
}

func TestConfigService_SaveErrorKeepsPreviousValue(t *testing.T) {
	svc, store, _ := newConfigService(t, nil)
	store.saveErr = errDiskFull

	err := svc.SetTimeout(context.Background(), 1000)

	require.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, 30000, svc.Settings().TimeoutMs)
}

func TestConfigService_SaveAPIKey(t *testing.T) {
	ctx := context.Background()
	svc, _, creds := newConfigService(t, nil)

	require.NoError(t, svc.SaveAPIKey(ctx, "qbi_abcdef123456", "", ""))
	require.NoError(t, svc.SaveAPIKey(ctx, "qbi_staging999", "https://staging.qbique.io", "staging"))

	key, ok := svc.APIKey("")
	require.True(t, ok)
	assert.Equal(t, "qbi_abcdef123456", key)

	c, ok := svc.Credential("staging")
	require.True(t, ok)
	assert.Equal(t, "https://staging.qbique.io", c.Endpoint)
	assert.Equal(t, fixedNow, c.SavedAt)

	assert.Equal(t, []string{"default", "staging"}, svc.ListProfiles())
	assert.Equal(t, 2, creds.saves)
	assert.Len(t, creds.vault, 2)
}

func TestConfigService_ProfileIndependence(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConfigService(t, nil)

	require.NoError(t, svc.SaveAPIKey(ctx, "qbi_a", "", "a"))
	require.NoError(t, svc.SaveAPIKey(ctx, "qbi_b", "", "b"))
	require.NoError(t, svc.RemoveAPIKey(ctx, "a"))

	key, ok := svc.APIKey("b")
	require.True(t, ok)
	assert.Equal(t, "qbi_b", key)
	_, ok = svc.APIKey("a")
	assert.False(t, ok)
}

func TestConfigService_RemoveAPIKeyRefusesActiveProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, creds := newConfigService(t, model.Vault{"default": {APIKey: "qbi_x"}})

	err := svc.RemoveAPIKey(ctx, "")

	var profErr *model.ProfileError
	require.ErrorAs(t, err, &profErr)
	assert.Equal(t, "default", profErr.Profile)
	assert.Equal(t, 0, creds.saves)

	require.NoError(t, svc.RemoveAPIKey(ctx, "missing"))
	assert.Equal(t, 0, creds.saves)
}

func TestConfigService_CreateProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConfigService(t, nil)

	require.NoError(t, svc.CreateProfile(ctx, "prod", "https://api.qbique.io/"))

	assert.Equal(t, []string{"prod"}, svc.ListProfiles())
	c, ok := svc.Credential("prod")
	require.True(t, ok)
	assert.Equal(t, "https://api.qbique.io", c.Endpoint)
	_, ok = svc.APIKey("prod")
	assert.False(t, ok, "a freshly created profile has no secret")

	var profErr *model.ProfileError
	require.ErrorAs(t, svc.CreateProfile(ctx, "prod", ""), &profErr)
	require.ErrorAs(t, svc.CreateProfile(ctx, "", ""), &profErr)

	var cfgErr *model.ConfigError
	require.ErrorAs(t, svc.CreateProfile(ctx, "bad", "ftp://x"), &cfgErr)
}

func TestConfigService_UseAndDeleteProfile(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newConfigService(t, nil)

	var profErr *model.ProfileError
	require.ErrorAs(t, svc.UseProfile(ctx, "ghost"), &profErr)

	require.NoError(t, svc.CreateProfile(ctx, "staging", ""))
	require.NoError(t, svc.UseProfile(ctx, "staging"))
	assert.Equal(t, "staging", svc.ActiveProfile())
	assert.Equal(t, "staging", store.settings.Profile)

	require.ErrorAs(t, svc.DeleteProfile(ctx, "staging"), &profErr)
	require.ErrorAs(t, svc.DeleteProfile(ctx, "ghost"), &profErr)

	require.NoError(t, svc.CreateProfile(ctx, "old", ""))
	require.NoError(t, svc.DeleteProfile(ctx, "old"))
	assert.Equal(t, []string{"staging"}, svc.ListProfiles())
}

func TestConfigService_ClearAPIKeyKeepsProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newConfigService(t, model.Vault{"default": {APIKey: "qbi_secret", Endpoint: "https://x.io"}})

	require.NoError(t, svc.ClearAPIKey(ctx, ""))

	_, ok := svc.APIKey("")
	assert.False(t, ok)
	c, ok := svc.Credential("")
	require.True(t, ok)
	assert.Equal(t, "https://x.io", c.Endpoint)
}

func TestConfigService_OverridesAreNotPersisted(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newConfigService(t, nil)

	svc.SetOverrides(application.Overrides{Profile: "ci", Endpoint: "http://ci:8001"})
	assert.Equal(t, "ci", svc.ActiveProfile())
	assert.Equal(t, "http://ci:8001", svc.Settings().Endpoint)

	require.NoError(t, svc.SetTimeout(ctx, 5000))
	require.Len(t, store.saves, 1)
	assert.Equal(t, "default", store.saves[0].Profile)
	assert.Equal(t, model.DefaultSettings().Endpoint, store.saves[0].Endpoint)
}

func TestConfigService_SaveErrorKeepsVault(t *testing.T) {
	svc, _, creds := newConfigService(t, nil)
	creds.saveErr = errDiskFull

	err := svc.SaveAPIKey(context.Background(), "qbi_x", "", "")

	require.ErrorIs(t, err, errDiskFull)
	assert.Empty(t, svc.ListProfiles())
}

func TestConfigService_DeleteProfileRefusesSavedActiveUnderOverride(t *testing.T) {
	ctx := context.Background()
	svc, _, creds := newConfigService(t, model.Vault{
		"default": {APIKey: "qbi_default"},
		"other":   {APIKey: "qbi_other"},
	})
	svc.SetOverrides(application.Overrides{Profile: "other"})

	err := svc.DeleteProfile(ctx, "default")

	var profErr *model.ProfileError
	require.ErrorAs(t, err, &profErr)
	assert.Equal(t, "default", profErr.Profile)
	assert.Equal(t, 0, creds.saves)
	key, ok := svc.APIKey("default")
	require.True(t, ok)
	assert.Equal(t, "qbi_default", key)

	err = svc.DeleteProfile(ctx, "other")
	require.ErrorAs(t, err, &profErr)
	assert.Equal(t, "other", profErr.Profile)
}

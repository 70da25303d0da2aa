package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/qbique/internal/application"
	"github.com/ericfisherdev/qbique/internal/domain/model"
)

func newAuthService(t *testing.T, gw *mockGateway, vault model.Vault) (*application.AuthService, *application.ConfigService) {
	t.Helper()
	cfg, _, _ := newConfigService(t, vault)
	return application.NewAuthService(cfg, gw, nil), cfg
}

func TestAuthService_LoginRejectsBadPrefix(t *testing.T) {
	gw := newMockGateway()
	svc, _ := newAuthService(t, gw, nil)

	_, err := svc.Login(context.Background(), "sk_nope")

	var cfgErr *model.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, gw.calls)
}

func TestAuthService_LoginValidated(t *testing.T) {
	gw := newMockGateway().
		reply("/api/auth/status", `{"auth_enabled":true,"method":"api_key"}`).
		reply("/api/auth/validate", `{"valid":true,"name":"ci-bot","prefix":"qbi_abcd","scopes":["read"]}`)
	svc, cfg := newAuthService(t, gw, nil)

	res, err := svc.Login(context.Background(), "qbi_abcdef123456")

	require.NoError(t, err)
	assert.Equal(t, application.LoginAuthenticated, res.Outcome)
	assert.Equal(t, "ci-bot", res.Name)
	assert.Equal(t, []string{"read"}, res.Scopes)

	key, ok := cfg.APIKey("")
	require.True(t, ok)
	assert.Equal(t, "qbi_abcdef123456", key)

	require.Len(t, gw.calls, 2)
	assert.Equal(t, "POST", gw.calls[1].Method)
	assert.Equal(t, "qbi_abcdef123456", gw.calls[1].Opts.APIKey)
}

func TestAuthService_LoginInvalidKeyNotSaved(t *testing.T) {
	gw := newMockGateway().
		reply("/api/auth/status", `{"auth_enabled":true}`).
		reply("/api/auth/validate", `{"valid":false}`)
	svc, cfg := newAuthService(t, gw, nil)

	_, err := svc.Login(context.Background(), "qbi_wrong")

	require.ErrorIs(t, err, application.ErrInvalidAPIKey)
	_, ok := cfg.APIKey("")
	assert.False(t, ok)
}

func TestAuthService_LoginAuthDisabled(t *testing.T) {
	gw := newMockGateway().reply("/api/auth/status", `{"auth_enabled":false}`)
	svc, cfg := newAuthService(t, gw, nil)

	res, err := svc.Login(context.Background(), "qbi_anything")

	require.NoError(t, err)
	assert.Equal(t, application.LoginSavedAuthDisabled, res.Outcome)
	assert.False(t, res.AuthEnabled)
	_, ok := cfg.APIKey("")
	assert.True(t, ok)
	assert.Equal(t, 0, gw.callCount("/api/auth/validate"))
}

func TestAuthService_LoginOffline(t *testing.T) {
	gw := newMockGateway().fail("/api/auth/status",
		&model.RequestError{Kind: model.ErrKindConnectionRefused, Endpoint: "http://localhost:8001"})
	svc, cfg := newAuthService(t, gw, model.Vault{"default": {Endpoint: "https://keep.me"}})

	res, err := svc.Login(context.Background(), "qbi_offline")

	require.NoError(t, err)
	assert.Equal(t, application.LoginSavedOffline, res.Outcome)
	c, ok := cfg.Credential("")
	require.True(t, ok)
	assert.Equal(t, "qbi_offline", c.APIKey)
	assert.Equal(t, "https://keep.me", c.Endpoint)
}

func TestAuthService_LoginStatusAPIErrorPropagates(t *testing.T) {
	gw := newMockGateway().fail("/api/auth/status",
		&model.RequestError{Kind: model.ErrKindAPI, Status: 500, Message: "boom"})
	svc, cfg := newAuthService(t, gw, nil)

	_, err := svc.Login(context.Background(), "qbi_x")

	require.Error(t, err)
	assert.True(t, model.IsRequestErrorKind(err, model.ErrKindAPI))
	_, ok := cfg.APIKey("")
	assert.False(t, ok)
}

func TestAuthService_LogoutAndStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t, newMockGateway(), model.Vault{"default": {APIKey: "qbi_abcdef123456"}})

	st := svc.Status()
	assert.True(t, st.Authenticated)
	assert.Equal(t, "qbi_abcd...", st.KeyPrefix)
	assert.Equal(t, "default", st.Profile)

	require.NoError(t, svc.Logout(ctx))

	st = svc.Status()
	assert.False(t, st.Authenticated)
	assert.Empty(t, st.KeyPrefix)
}

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ericfisherdev/qbique/internal/domain/model"
	"github.com/ericfisherdev/qbique/internal/domain/port/driven"
)

// APIKeyPrefix is the mandatory prefix of every platform API key.
const APIKeyPrefix = "qbi_"

// ErrInvalidAPIKey is returned when the server rejects a key during login.
var ErrInvalidAPIKey = errors.New("invalid API key")

// LoginOutcome says how a login attempt concluded.
type LoginOutcome string

const (
	LoginAuthenticated     LoginOutcome = "authenticated"
	LoginSavedAuthDisabled LoginOutcome = "saved_auth_disabled"
	LoginSavedOffline      LoginOutcome = "saved_offline"
)

// LoginResult describes a successful login.
type LoginResult struct {
	Outcome     LoginOutcome `json:"outcome"`
	Profile     string       `json:"profile"`
	AuthEnabled bool         `json:"auth_enabled"`
	Name        string       `json:"name,omitempty"`
	Prefix      string       `json:"prefix,omitempty"`
	Scopes      []string     `json:"scopes,omitempty"`
}

// AuthState is the local view of the active profile's credentials.
type AuthState struct {
	Profile       string `json:"profile"`
	Authenticated bool   `json:"authenticated"`
	KeyPrefix     string `json:"key_prefix,omitempty"`
	Endpoint      string `json:"endpoint"`
}

// AuthService implements the login, logout and status flows.
type AuthService struct {
	config  *ConfigService
	gateway driven.APIGateway
	logger  *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(config *ConfigService, gateway driven.APIGateway, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{config: config, gateway: gateway, logger: logger}
}

// Login validates apiKey against the server when possible and saves it to
// the active profile. When the server is unreachable the key is saved
// without validation.
func (s *AuthService) Login(ctx context.Context, apiKey string) (LoginResult, error) {
	if !strings.HasPrefix(apiKey, APIKeyPrefix) {
		return LoginResult{}, &model.ConfigError{
			Key:    "apiKey",
			Reason: fmt.Sprintf("invalid API key format: keys must start with %q", APIKeyPrefix),
			Hint:   "qbique auth login --api-key qbi_<key>",
		}
	}

	result := LoginResult{Profile: s.config.ActiveProfile()}

	var status model.AuthStatus
	err := callJSON(ctx, s.gateway, http.MethodGet, "/api/auth/status", nil, &status, model.CallOptions{})
	switch {
	case err != nil && !model.IsRequestErrorKind(err, model.ErrKindAPI):
		s.logger.Warn("auth status probe failed, saving key without validation", "error", err)
		result.Outcome = LoginSavedOffline
		return result, s.save(ctx, apiKey)
	case err != nil:
		return LoginResult{}, fmt.Errorf("check auth status: %w", err)
	case !status.AuthEnabled:
		result.Outcome = LoginSavedAuthDisabled
		return result, s.save(ctx, apiKey)
	}

	var validation model.AuthValidation
	if err := callJSON(ctx, s.gateway, http.MethodPost, "/api/auth/validate", nil, &validation,
		model.CallOptions{APIKey: apiKey}); err != nil {
		return LoginResult{}, fmt.Errorf("validate API key: %w", err)
	}
	if !validation.Valid {
		return LoginResult{}, ErrInvalidAPIKey
	}

	result.Outcome = LoginAuthenticated
	result.AuthEnabled = true
	result.Name = validation.Name
	result.Prefix = validation.Prefix
	result.Scopes = validation.Scopes
	return result, s.save(ctx, apiKey)
}

func (s *AuthService) save(ctx context.Context, apiKey string) error {
	var endpoint string
	if c, ok := s.config.Credential(""); ok {
		endpoint = c.Endpoint
	}
	if err := s.config.SaveAPIKey(ctx, apiKey, endpoint, ""); err != nil {
		return fmt.Errorf("save API key: %w", err)
	}
	return nil
}

// Logout forgets the active profile's secret.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.config.ClearAPIKey(ctx, "")
}

// Status reports the active profile's authentication state without
// contacting the server.
func (s *AuthService) Status() AuthState {
	state := AuthState{
		Profile:  s.config.ActiveProfile(),
		Endpoint: s.config.Settings().Endpoint,
	}
	if c, ok := s.config.Credential(""); ok && c.Endpoint != "" {
		state.Endpoint = c.Endpoint
	}
	if key, ok := s.config.APIKey(""); ok {
		state.Authenticated = true
		state.KeyPrefix = model.MaskKey(key)
	}
	return state
}

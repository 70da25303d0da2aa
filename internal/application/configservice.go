// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/qbique/internal/domain/model"
	"github.com/ericfisherdev/qbique/internal/domain/port/driven"
)

// LoadSummary reports how each persisted document was read by Load.
type LoadSummary struct {
	Settings    model.LoadReport
	Credentials model.LoadReport
}

// Overrides are process-scoped values layered over the persisted settings.
// They are never written back to disk.
type Overrides struct {
	Profile  string
	Endpoint string
}

// ConfigService owns the global settings record and the credential vault.
// Every mutation is persisted synchronously as a full document before the
// method returns.
type ConfigService struct {
	settingsStore driven.SettingsStore
	credStore     driven.CredentialStore
	logger        *slog.Logger
	now           func() time.Time

	settings  model.Settings
	vault     model.Vault
	overrides Overrides
}

// NewConfigService creates a ConfigService holding defaults until Load is
// called.
func NewConfigService(settingsStore driven.SettingsStore, credStore driven.CredentialStore, logger *slog.Logger) *ConfigService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigService{
		settingsStore: settingsStore,
		credStore:     credStore,
		logger:        logger,
		now:           time.Now,
		settings:      model.DefaultSettings(),
		vault:         model.Vault{},
	}
}

// SetClock replaces the time source used for credential timestamps.
func (s *ConfigService) SetClock(now func() time.Time) {
	s.now = now
}

// SetOverrides installs process-scoped overrides, e.g. from the environment
// or a --profile flag.
func (s *ConfigService) SetOverrides(o Overrides) {
	s.overrides = o
}

// Load reads both documents. It never fails: missing or corrupt documents
// yield defaults and an empty vault, and the summary says which.
func (s *ConfigService) Load(ctx context.Context) LoadSummary {
	var summary LoadSummary
	s.settings, summary.Settings = s.settingsStore.Load(ctx)
	s.vault, summary.Credentials = s.credStore.Load(ctx)
	if s.vault == nil {
		s.vault = model.Vault{}
	}

	s.logger.Debug("configuration loaded",
		"settings", summary.Settings.Status,
		"credentials", summary.Credentials.Status,
		"profiles", len(s.vault),
	)
	return summary
}

// Settings returns the effective settings with overrides applied.
func (s *ConfigService) Settings() model.Settings {
	effective := s.settings
	if s.overrides.Profile != "" {
		effective.Profile = s.overrides.Profile
	}
	if s.overrides.Endpoint != "" {
		effective.Endpoint = s.overrides.Endpoint
	}
	return effective
}

// Persisted returns the settings exactly as stored, without overrides.
func (s *ConfigService) Persisted() model.Settings {
	return s.settings
}

// Get returns the effective value of key rendered as a string.
func (s *ConfigService) Get(key model.SettingKey) string {
	return s.Settings().Value(key)
}

// ActiveProfile returns the effective active profile name.
func (s *ConfigService) ActiveProfile() string {
	return s.Settings().Profile
}

// OutputFormat returns the configured default output format.
func (s *ConfigService) OutputFormat() model.OutputFormat {
	return s.settings.DefaultOutput
}

// SetEndpoint validates and persists the global endpoint.
func (s *ConfigService) SetEndpoint(ctx context.Context, endpoint string) error {
	return s.set(ctx, model.KeyEndpoint, endpoint)
}

// SetDefaultOutput persists the default output format.
func (s *ConfigService) SetDefaultOutput(ctx context.Context, format model.OutputFormat) error {
	return s.set(ctx, model.KeyDefaultOutput, string(format))
}

// SetTimeout persists the request timeout in milliseconds.
func (s *ConfigService) SetTimeout(ctx context.Context, timeoutMs int) error {
	return s.set(ctx, model.KeyTimeout, strconv.Itoa(timeoutMs))
}

// SetActiveProfile persists the active profile name. The profile need not
// have a vault entry; use UseProfile to require one.
func (s *ConfigService) SetActiveProfile(ctx context.Context, profile string) error {
	return s.set(ctx, model.KeyProfile, profile)
}

// SetFromString validates a raw key and value and persists the change.
// Unknown keys and unparsable values fail with *model.ConfigError.
func (s *ConfigService) SetFromString(ctx context.Context, rawKey, rawValue string) error {
	key, err := model.ParseSettingKey(rawKey)
	if err != nil {
		return err
	}
	return s.set(ctx, key, rawValue)
}

// settingValidators holds one parse-and-assign function per settable key.
var settingValidators = map[model.SettingKey]func(*model.Settings, string) error{
	model.KeyEndpoint: func(st *model.Settings, raw string) error {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return configError(model.KeyEndpoint, "invalid endpoint %q: expected an absolute http(s) URL", raw)
		}
		st.Endpoint = strings.TrimRight(raw, "/")
		return nil
	},
	model.KeyDefaultOutput: func(st *model.Settings, raw string) error {
		format := model.OutputFormat(raw)
		if !format.Valid() {
			return configError(model.KeyDefaultOutput, "invalid output format: %s. Use json, table, or yaml", raw)
		}
		st.DefaultOutput = format
		return nil
	},
	model.KeyTimeout: func(st *model.Settings, raw string) error {
		ms, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return configError(model.KeyTimeout, "invalid timeout value: %s", raw)
		}
		if ms <= 0 {
			return configError(model.KeyTimeout, "invalid timeout value: %s (must be a positive number of milliseconds)", raw)
		}
		st.TimeoutMs = ms
		return nil
	},
	model.KeyProfile: func(st *model.Settings, raw string) error {
		if strings.TrimSpace(raw) == "" {
			return configError(model.KeyProfile, "profile name must not be empty")
		}
		st.Profile = raw
		return nil
	},
}

func configError(key model.SettingKey, format string, args ...any) *model.ConfigError {
	return &model.ConfigError{
		Key:    string(key),
		Reason: fmt.Sprintf(format, args...),
		Hint:   fmt.Sprintf("qbique config set %s <value>", key),
	}
}

// set validates raw against key's validator, applies it in memory and
// persists the full settings document. The in-memory record is only replaced
// once the write succeeds.
func (s *ConfigService) set(ctx context.Context, key model.SettingKey, raw string) error {
	validate, ok := settingValidators[key]
	if !ok {
		_, err := model.ParseSettingKey(string(key))
		return err
	}

	next := s.settings
	if err := validate(&next, raw); err != nil {
		return err
	}
	if err := s.settingsStore.Save(ctx, next); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.settings = next
	if key == model.KeyProfile {
		s.overrides.Profile = ""
	}
	return nil
}

// Credential returns the vault entry for profile ("" means active).
func (s *ConfigService) Credential(profile string) (model.Credential, bool) {
	c, ok := s.vault[s.resolveProfile(profile)]
	return c, ok
}

// APIKey returns the secret for profile ("" means active). A missing entry
// or an empty secret is reported as absent, not as an error.
func (s *ConfigService) APIKey(profile string) (string, bool) {
	c, ok := s.Credential(profile)
	if !ok || !c.Authenticated() {
		return "", false
	}
	return c.APIKey, true
}

// SaveAPIKey upserts the credential for profile ("" means active) stamped
// with the current time and persists the vault.
func (s *ConfigService) SaveAPIKey(ctx context.Context, apiKey, endpointOverride, profile string) error {
	name := s.resolveProfile(profile)
	next := s.vault.Clone()
	next[name] = model.Credential{
		APIKey:   apiKey,
		Endpoint: endpointOverride,
		SavedAt:  s.now().UTC(),
	}
	return s.saveVault(ctx, next)
}

// ListProfiles returns the known profile names in sorted order.
func (s *ConfigService) ListProfiles() []string {
	names := make([]string, 0, len(s.vault))
	for name := range s.vault {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveAPIKey deletes the vault entry for profile ("" means active). It
// refuses to remove the entry of the saved active profile or of the profile
// selected for this invocation. Removing an unknown profile is a no-op.
func (s *ConfigService) RemoveAPIKey(ctx context.Context, profile string) error {
	name := s.resolveProfile(profile)
	if name == s.settings.Profile || name == s.ActiveProfile() {
		return &model.ProfileError{
			Profile: name,
			Reason:  fmt.Sprintf("cannot remove credentials of the active profile %q", name),
			Hint:    "Switch to another profile first: qbique config profile use <name>",
		}
	}
	if _, ok := s.vault[name]; !ok {
		return nil
	}

	next := s.vault.Clone()
	delete(next, name)
	return s.saveVault(ctx, next)
}

// ClearAPIKey blanks the secret of profile ("" means active) while keeping
// the profile registered. Used by logout.
func (s *ConfigService) ClearAPIKey(ctx context.Context, profile string) error {
	name := s.resolveProfile(profile)
	c, ok := s.vault[name]
	if !ok || !c.Authenticated() {
		return nil
	}

	next := s.vault.Clone()
	c.APIKey = ""
	c.SavedAt = s.now().UTC()
	next[name] = c
	return s.saveVault(ctx, next)
}

// CreateProfile registers name with an empty secret so it is listed before
// authentication. Fails with *model.ProfileError if name is empty or taken.
func (s *ConfigService) CreateProfile(ctx context.Context, name, endpointOverride string) error {
	if strings.TrimSpace(name) == "" {
		return &model.ProfileError{
			Reason: "profile name is required",
			Hint:   "qbique config profile create <name>",
		}
	}
	if _, exists := s.vault[name]; exists {
		return &model.ProfileError{
			Profile: name,
			Reason:  fmt.Sprintf("profile %q already exists", name),
			Hint:    "qbique config profile list",
		}
	}
	if endpointOverride != "" {
		var candidate model.Settings
		if err := settingValidators[model.KeyEndpoint](&candidate, endpointOverride); err != nil {
			return err
		}
		endpointOverride = candidate.Endpoint
	}
	return s.SaveAPIKey(ctx, "", endpointOverride, name)
}

// UseProfile makes an existing profile the active one.
func (s *ConfigService) UseProfile(ctx context.Context, name string) error {
	if _, ok := s.vault[name]; !ok {
		return &model.ProfileError{
			Profile: name,
			Reason:  fmt.Sprintf("profile %q does not exist", name),
			Hint:    fmt.Sprintf("Create it first with: qbique config profile create %s", name),
		}
	}
	return s.SetActiveProfile(ctx, name)
}

// DeleteProfile removes an existing, non-active profile.
func (s *ConfigService) DeleteProfile(ctx context.Context, name string) error {
	if _, ok := s.vault[name]; !ok {
		return &model.ProfileError{
			Profile: name,
			Reason:  fmt.Sprintf("profile %q does not exist", name),
			Hint:    "qbique config profile list",
		}
	}
	return s.RemoveAPIKey(ctx, name)
}

func (s *ConfigService) resolveProfile(profile string) string {
	if profile == "" {
		return s.ActiveProfile()
	}
	return profile
}

func (s *ConfigService) saveVault(ctx context.Context, next model.Vault) error {
	if err := s.credStore.Save(ctx, next); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	s.vault = next
	return nil
}

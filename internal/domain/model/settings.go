package model

import (
	"fmt"
	"strings"
	"time"
)

// Settings is the persisted global configuration record. Every field always
// carries a value; DefaultSettings fills gaps left by an older or partial
// document.
type Settings struct {
	Endpoint      string       `json:"endpoint"`
	DefaultOutput OutputFormat `json:"defaultOutput"`
	TimeoutMs     int          `json:"timeout"`
	Profile       string       `json:"profile"`
}

const (
	defaultEndpoint  = "http://localhost:8001"
	defaultTimeoutMs = 30_000
	// DefaultProfile is the profile name used on a fresh installation.
	DefaultProfile = "default"
)

// DefaultSettings returns the built-in configuration used on first run and
// whenever the settings document is missing or unreadable.
func DefaultSettings() Settings {
	return Settings{
		Endpoint:      defaultEndpoint,
		DefaultOutput: OutputTable,
		TimeoutMs:     defaultTimeoutMs,
		Profile:       DefaultProfile,
	}
}

// WithDefaults returns s with every zero or invalid field replaced by its
// default value.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.Endpoint == "" {
		s.Endpoint = d.Endpoint
	}
	if !s.DefaultOutput.Valid() {
		s.DefaultOutput = d.DefaultOutput
	}
	if s.TimeoutMs <= 0 {
		s.TimeoutMs = d.TimeoutMs
	}
	if s.Profile == "" {
		s.Profile = d.Profile
	}
	return s
}

// Timeout returns the request timeout as a duration.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// SettingKey names one settable field of Settings.
type SettingKey string

const (
	KeyEndpoint      SettingKey = "endpoint"
	KeyDefaultOutput SettingKey = "defaultOutput"
	KeyTimeout       SettingKey = "timeout"
	KeyProfile       SettingKey = "profile"
)

// SettingKeys returns the closed set of settable keys.
func SettingKeys() []SettingKey {
	return []SettingKey{KeyEndpoint, KeyDefaultOutput, KeyTimeout, KeyProfile}
}

// ParseSettingKey maps a raw key to a SettingKey, failing with a ConfigError
// that lists the valid keys.
func ParseSettingKey(raw string) (SettingKey, error) {
	for _, k := range SettingKeys() {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", &ConfigError{
		Key:    raw,
		Reason: fmt.Sprintf("unknown config key %q; valid keys: %s", raw, joinKeys(SettingKeys())),
		Hint:   "qbique config show",
	}
}

// Value renders the current value of key as a string.
func (s Settings) Value(key SettingKey) string {
	switch key {
	case KeyEndpoint:
		return s.Endpoint
	case KeyDefaultOutput:
		return string(s.DefaultOutput)
	case KeyTimeout:
		return fmt.Sprintf("%d", s.TimeoutMs)
	case KeyProfile:
		return s.Profile
	default:
		return ""
	}
}

func joinKeys(keys []SettingKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

package model

import (
	"encoding/json"
	"time"
)

// Credential is one profile's entry in the credential vault. Endpoint is an
// optional per-profile override of the global endpoint; an empty APIKey means
// the profile exists but is not authenticated.
type Credential struct {
	APIKey   string    `json:"apiKey"`
	Endpoint string    `json:"endpoint"`
	SavedAt  time.Time `json:"savedAt"`
}

// UnmarshalJSON decodes an entry, leaving SavedAt zero when the stored
// timestamp is missing or malformed so one bad entry does not fail the vault.
func (c *Credential) UnmarshalJSON(data []byte) error {
	var raw struct {
		APIKey   string          `json:"apiKey"`
		Endpoint string          `json:"endpoint"`
		SavedAt  json.RawMessage `json:"savedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Credential{APIKey: raw.APIKey, Endpoint: raw.Endpoint}
	if len(raw.SavedAt) > 0 {
		var savedAt time.Time
		if err := json.Unmarshal(raw.SavedAt, &savedAt); err == nil {
			c.SavedAt = savedAt
		}
	}
	return nil
}

// Authenticated reports whether the entry holds a secret.
func (c Credential) Authenticated() bool {
	return c.APIKey != ""
}

// Vault maps profile name to credential entry.
type Vault map[string]Credential

// Clone returns a shallow copy of the vault safe to mutate.
func (v Vault) Clone() Vault {
	out := make(Vault, len(v))
	for k, c := range v {
		out[k] = c
	}
	return out
}

// MaskKey returns the first eight characters of a secret followed by an
// ellipsis, or "" for an empty key.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return key[:len(key)/2] + "..."
	}
	return key[:8] + "..."
}

package model

import "time"

// LicenseFreshness is how long a license check stays fresh. Older results
// are still honored but reported as stale.
const LicenseFreshness = 7 * 24 * time.Hour

// License is a cached license-check outcome for one plugin. ExpiresAt is nil
// when the license does not expire.
type License struct {
	Plugin    string     `json:"plugin"`
	Tier      Tier       `json:"tier"`
	Valid     bool       `json:"valid"`
	ExpiresAt *time.Time `json:"expiresAt"`
	CheckedAt time.Time  `json:"checkedAt"`
}

// LicenseCheck is the result of resolving a plugin's entitlement. Stale is
// advisory only and never changes Status. Message is a user-facing hint for
// non-usable results and stale valid ones.
type LicenseCheck struct {
	Status  LicenseStatus `json:"status"`
	Stale   bool          `json:"stale,omitempty"`
	Message string        `json:"message,omitempty"`
}

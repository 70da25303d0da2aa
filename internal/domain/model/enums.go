package model

// OutputFormat is the rendering preference for command output.
type OutputFormat string

const (
	OutputJSON  OutputFormat = "json"
	OutputTable OutputFormat = "table"
	OutputYAML  OutputFormat = "yaml"
)

// OutputFormats lists every accepted OutputFormat in display order.
func OutputFormats() []OutputFormat {
	return []OutputFormat{OutputJSON, OutputTable, OutputYAML}
}

// Valid reports whether f is one of the enumerated formats.
func (f OutputFormat) Valid() bool {
	switch f {
	case OutputJSON, OutputTable, OutputYAML:
		return true
	default:
		return false
	}
}

// Tier is the pricing class of a pluggable capability.
type Tier string

const (
	TierFree       Tier = "free"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPremium, TierEnterprise:
		return true
	default:
		return false
	}
}

// LicenseStatus is the resolved entitlement state for a plugin.
type LicenseStatus string

const (
	LicenseFree    LicenseStatus = "free"
	LicenseValid   LicenseStatus = "valid"
	LicenseExpired LicenseStatus = "expired"
	LicenseMissing LicenseStatus = "missing"
)

// Usable reports whether the status permits using the plugin.
func (s LicenseStatus) Usable() bool {
	return s == LicenseFree || s == LicenseValid
}

// LoadStatus describes what a persisted document looked like when read.
type LoadStatus string

const (
	LoadAbsent  LoadStatus = "absent"
	LoadCorrupt LoadStatus = "corrupt"
	LoadOK      LoadStatus = "ok"
)

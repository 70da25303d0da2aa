package application

import (
	"fmt"

	"github.com/ericfisherdev/qbique/internal/domain/model"
)

// InstalledProbe reports whether the host has a plugin package installed.
type InstalledProbe func(plugin string) bool

// LicenseChecker resolves a plugin's entitlement state.
type LicenseChecker interface {
	Check(plugin string, tier model.Tier) model.LicenseCheck
}

// FeatureRegistry gates features and plugins against the compiled-in
// plugin table and the entitlement cache.
type FeatureRegistry struct {
	plugins   []model.PluginDescriptor
	licenses  LicenseChecker
	installed InstalledProbe
}

// NewFeatureRegistry creates a registry over the builtin plugin table. A nil
// probe means no plugin is installed.
func NewFeatureRegistry(licenses LicenseChecker, installed InstalledProbe) *FeatureRegistry {
	if installed == nil {
		installed = func(string) bool { return false }
	}
	return &FeatureRegistry{
		plugins:   model.BuiltinPlugins(),
		licenses:  licenses,
		installed: installed,
	}
}

// CheckFeature reports whether feature can be used. Features owned by a
// paid plugin that is not installed are unavailable with an upsell message.
// Unclaimed features are built in.
func (r *FeatureRegistry) CheckFeature(feature string) model.Access {
	for _, p := range r.plugins {
		if !p.Provides(feature) {
			continue
		}
		if p.Tier == model.TierFree || r.installed(p.Name) {
			return model.Access{Allowed: true}
		}
		return model.Access{Allowed: false, Message: UpsellMessage(p)}
	}
	return model.Access{Allowed: true}
}

// CheckEngine maps an engine flag value onto its feature. Only the quantum
// engine is pluggable.
func (r *FeatureRegistry) CheckEngine(engine string) model.Access {
	if engine == "quantum" {
		return r.CheckFeature("quantum-engine")
	}
	return model.Access{Allowed: true}
}

// CheckPluginAccess combines the registry lookup with the entitlement cache.
func (r *FeatureRegistry) CheckPluginAccess(plugin string) model.Access {
	p, ok := r.PluginInfo(plugin)
	if !ok {
		return model.Access{
			Allowed: false,
			Message: fmt.Sprintf("Unknown plugin: %s\n  List plugins: qbique plugins available", plugin),
		}
	}
	if p.Tier == model.TierFree {
		return model.Access{Allowed: true}
	}

	result := r.licenses.Check(p.Name, p.Tier)
	if result.Status.Usable() {
		return model.Access{Allowed: true, Message: result.Message}
	}
	return model.Access{Allowed: false, Message: result.Message}
}

// ListAvailable returns every known plugin in registry order.
func (r *FeatureRegistry) ListAvailable() []model.PluginDescriptor {
	out := make([]model.PluginDescriptor, len(r.plugins))
	copy(out, r.plugins)
	return out
}

// PluginInfo looks up a plugin by its full package name.
func (r *FeatureRegistry) PluginInfo(name string) (model.PluginDescriptor, bool) {
	for _, p := range r.plugins {
		if p.Name == name {
			return p, true
		}
	}
	return model.PluginDescriptor{}, false
}

// TierOf returns the tier of a known plugin, or premium for unknown names.
func (r *FeatureRegistry) TierOf(name string) model.Tier {
	if p, ok := r.PluginInfo(name); ok {
		return p.Tier
	}
	return model.TierPremium
}

// UpsellMessage builds the installation prompt shown when a paid feature is
// unavailable.
func UpsellMessage(p model.PluginDescriptor) string {
	label := ""
	switch p.Tier {
	case model.TierEnterprise:
		label = " (Enterprise license required)"
	case model.TierPremium:
		label = " (Premium plugin)"
	}
	return fmt.Sprintf("This feature requires the %s plugin.%s\n  %s\n  Install: qbique plugins install %s",
		p.Name, label, p.Description, p.Name)
}

package model

// PluginDescriptor describes a known extension package and the features it
// provides.
type PluginDescriptor struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Tier        Tier     `json:"tier"`
}

// Provides reports whether the plugin claims feature.
func (p PluginDescriptor) Provides(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// BuiltinPlugins returns the compiled-in plugin registry. The returned slice
// is a fresh copy on every call.
func BuiltinPlugins() []PluginDescriptor {
	return []PluginDescriptor{
		{
			Name:        "@qbique/plugin-quantum",
			Description: "Quantum annealing optimization engine",
			Features:    []string{"quantum-engine", "qaoa", "vqe"},
			Tier:        TierPremium,
		},
		{
			Name:        "@qbique/plugin-risk-pro",
			Description: "Advanced risk analytics (stress test, scenario analysis, VaR)",
			Features:    []string{"stress-test", "scenario-analysis", "var-model"},
			Tier:        TierPremium,
		},
		{
			Name:        "@qbique/plugin-report-pdf",
			Description: "PDF report generation with charts",
			Features:    []string{"pdf-report", "chart-export"},
			Tier:        TierFree,
		},
		{
			Name:        "@qbique/plugin-data-bloomberg",
			Description: "Bloomberg data integration",
			Features:    []string{"bloomberg-feed", "blp-query"},
			Tier:        TierEnterprise,
		},
	}
}

// Access is the outcome of a gate check. Message explains how to enable the
// capability when Allowed is false, and may carry an advisory otherwise.
type Access struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

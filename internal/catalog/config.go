package catalog

import (
	"github.com/deliberate/deliberate/pkg/config"
)

// ConfigOptions returns the options described by cfg: policy limits,
// scoring thresholds and extra templates.
func ConfigOptions(cfg *config.Config) []Option {
	return []Option{
		WithPolicy(cfg.Policy),
		WithScoring(cfg.ScoringOptions()),
		WithTemplates(cfg.Templates),
	}
}

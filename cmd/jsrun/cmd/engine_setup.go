package cmd

import (
	"fmt"

	"github.com/jsengine/jsengine/internal/contextrt"
	"github.com/jsengine/jsengine/pkg/jsengine"
)

// featureNames maps a .jsengine.yaml `features` entry to the Feature flag
// it toggles, covering the handful most relevant to a script host (the
// full 21-flag set lives in internal/contextrt for embedders that want it
// via the Go API directly).
var featureNames = map[string]contextrt.Feature{
	"strictMode":             contextrt.FeatureStrictMode,
	"warningAsError":         contextrt.FeatureWarningAsError,
	"generateDebugInfo":      contextrt.FeatureGenerateDebugInfo,
	"allowReservedKeywords":  contextrt.FeatureAllowReservedKeywords,
	"enhancedJavaAccess":     contextrt.FeatureEnhancedJavaAccess,
	"strictVars":             contextrt.FeatureStrictVars,
	"v8Extensions":           contextrt.FeatureV8Extensions,
}

// newEngineFromConfig builds a jsengine.Engine honoring an optional
// .jsengine.yaml in the working directory, the shared setup every script-
// running subcommand (run, repl) starts from.
func newEngineFromConfig() (*jsengine.Engine, error) {
	cfg, err := loadConfig(".jsengine.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading .jsengine.yaml: %w", err)
	}
	var opts []jsengine.Option
	if cfg.LanguageVersion != "" {
		opts = append(opts, jsengine.WithLanguageVersion(cfg.LanguageVersion))
	}
	for _, name := range cfg.Features {
		f, ok := featureNames[name]
		if !ok {
			return nil, fmt.Errorf(".jsengine.yaml: unknown feature %q", name)
		}
		opts = append(opts, jsengine.WithFeature(f, true))
	}
	if cfg.Sealed {
		opts = append(opts, jsengine.Sealed())
	}
	return jsengine.NewEngine(opts...), nil
}

package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
)

// fileConfig is the shape of an optional .jsengine.yaml the CLI loads from
// the current directory, seeding initial feature-flag and language-version
// Context settings before a script runs (SPEC_FULL.md's ambient CLI
// configuration concern).
type fileConfig struct {
	LanguageVersion string   `yaml:"languageVersion"`
	Features        []string `yaml:"features"`
	Sealed          bool     `yaml:"sealed"`
}

// loadConfig reads path if it exists, returning a zero-value fileConfig
// (not an error) when the file is simply absent, since the config is
// entirely optional.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

package main

import (
	"fmt"

	"avlint/internal/analysis"
	"avlint/internal/config"
)

// loadRuleOptions resolves the manifest for a session: an explicit --config
// path wins, otherwise avlint.toml is discovered by walking up from startDir.
// A missing manifest is not an error; it yields empty options.
func loadRuleOptions(explicitPath, startDir string, reg *analysis.Registry) (analysis.Options, string, error) {
	path := explicitPath
	if path == "" {
		found, ok, err := config.Discover(startDir)
		if err != nil {
			return analysis.Options{}, "", err
		}
		if !ok {
			return analysis.Options{}, "", nil
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return analysis.Options{}, "", err
	}
	opts, err := config.Apply(cfg, reg)
	if err != nil {
		return analysis.Options{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return opts, path, nil
}

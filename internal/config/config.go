// Package config loads avlint.toml: per-rule enablement and severity
// overrides keyed by rule ID.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"avlint/internal/analysis"
	"avlint/internal/diag"
)

// ManifestName is the configuration file discovered in parent directories.
const ManifestName = "avlint.toml"

// Config mirrors the TOML layout:
//
//	[rules]
//	AV1705 = "warning"
//	AV1708 = "none"
type Config struct {
	Rules map[string]string `toml:"rules"`
}

// Load parses the configuration file at path.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return cfg, nil
}

// Discover walks from startDir up to the filesystem root looking for the
// manifest. ok=false means no manifest exists, which is not an error.
func Discover(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Apply translates the configuration into dispatcher options against the
// registered rules. Unknown rule IDs and unknown severity values are
// reported together so users can fix the file in one pass.
func Apply(cfg Config, reg *analysis.Registry) (analysis.Options, error) {
	opts := analysis.Options{
		Severity: make(map[string]diag.Severity),
		Disabled: make(map[string]bool),
	}
	var bad []string
	for id, value := range cfg.Rules {
		if _, known := reg.Lookup(id); !known {
			bad = append(bad, fmt.Sprintf("unknown rule %q", id))
			continue
		}
		if value == "none" {
			opts.Disabled[id] = true
			continue
		}
		severity, ok := diag.ParseSeverity(value)
		if !ok {
			bad = append(bad, fmt.Sprintf("rule %q has unknown severity %q", id, value))
			continue
		}
		opts.Severity[id] = severity
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return analysis.Options{}, fmt.Errorf("config: %s", strings.Join(bad, "; "))
	}
	return opts, nil
}

// Template is the starter manifest written by `avlint init`.
const Template = `# avlint configuration
#
# Map rule IDs to "error", "warning", "info", or "none" to disable.

[rules]
# AV1705 = "warning"
# AV1708 = "none"
`

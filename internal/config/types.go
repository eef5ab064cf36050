// Package config loads decltree settings from decltree.yaml and the
// environment.
package config

import (
	"fmt"
	"strings"

	"github.com/jward/decltree/internal/decl"
)

// Config holds engine settings.
type Config struct {
	// Database is the SQLite file the engine writes to.
	Database string `koanf:"database"`
	// Parallel enables the worker pipeline in IndexUnits.
	Parallel bool `koanf:"parallel"`
	// Workers bounds the worker pipeline. Zero means one per CPU.
	Workers int `koanf:"workers"`
	// Languages restricts indexing. Empty means all languages.
	Languages []string `koanf:"languages"`
	// Predicate is a Risor script deciding which Objective-C cursors are
	// documented. Empty means the embedded default.
	Predicate string `koanf:"predicate"`
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("config: database is required")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0, got %d", c.Workers)
	}
	for _, l := range c.Languages {
		if _, ok := decl.ParseLanguage(l); !ok {
			return fmt.Errorf("config: unknown language %q", l)
		}
	}
	return nil
}

// splitLanguages expands comma-separated entries, which is how a list
// arrives from an environment variable.
func splitLanguages(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, l := range strings.Split(entry, ",") {
			if l = strings.TrimSpace(strings.ToLower(l)); l != "" {
				out = append(out, l)
			}
		}
	}
	return out
}

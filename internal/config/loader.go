package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "decltree.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "decltree.yml"

// EnvPrefix prefixes environment overrides: DECLTREE_WORKERS -> workers.
const EnvPrefix = "DECLTREE_"

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and DECLTREE_ environment variables, in increasing
// precedence. Relative database and predicate paths in the file are
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	fromFile := map[string]bool{}
	if path != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		fromFile["database"] = fk.Exists("database")
		fromFile["predicate"] = fk.Exists("predicate")
		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("config: merge %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		// Env values are relative to the working directory, not the file.
		delete(fromFile, key)
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyDefaults(&cfg)

	base := filepath.Dir(path)
	if fromFile["database"] {
		cfg.Database = resolvePathRelativeTo(cfg.Database, base)
	}
	if fromFile["predicate"] {
		cfg.Predicate = resolvePathRelativeTo(cfg.Predicate, base)
	}
	return &cfg, nil
}

// LoadFromDir loads the config file in dir, falling back to defaults and
// environment when dir has none.
func LoadFromDir(dir string) (*Config, error) {
	return Load(findConfigFile(dir))
}

// findConfigFile finds the config file in the given directory.
// Returns empty string if not found.
func findConfigFile(dir string) string {
	yamlPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}

	ymlPath := filepath.Join(dir, ConfigFileNameAlt)
	if _, err := os.Stat(ymlPath); err == nil {
		return ymlPath
	}

	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, already absolute, or in-memory.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

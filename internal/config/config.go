package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/tidwall/jsonc"
)

// Load reads configuration: defaults, deep-merged with the JSONC config file,
// then overridden by environment variables. When path is empty the default
// user-level config file is used; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if m, err := loadJSONC(path); err == nil {
			if err := mergeIntoConfig(&cfg, m); err != nil {
				return nil, fmt.Errorf("merging config file: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// DefaultPath returns the user-level config file path
// (~/.config/prflight/prflight.jsonc), or empty if the user config
// directory cannot be determined.
func DefaultPath() string {
	userDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(userDir, "prflight", "prflight.jsonc")
}

// Validate checks that every required option is set, reporting the first
// missing one. Username and the checker config path are optional.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"endpoint", c.Endpoint},
		{"token", c.Token},
		{"owner", c.Owner},
		{"repo", c.Repo},
		{"work_tree", c.WorkTree},
		{"checker_path", c.CheckerPath},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing configuration: %s", r.name)
		}
	}
	return nil
}

// loadJSONC reads a JSONC file and returns it as a map.
func loadJSONC(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jsonData := jsonc.ToJSON(data)
	var m map[string]any
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// mergeIntoConfig marshals the config to a map, deep-merges the source map
// over it, then unmarshals back to the Config struct.
func mergeIntoConfig(cfg *Config, src map[string]any) error {
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var dst map[string]any
	if err := json.Unmarshal(cfgBytes, &dst); err != nil {
		return err
	}

	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		return err
	}

	merged, err := json.Marshal(dst)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, cfg)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over the config file.
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env   string
		field *string
	}{
		{"GITHUB_URL", &cfg.Endpoint},
		{"GITHUB_USERNAME", &cfg.Username},
		{"GITHUB_TOKEN", &cfg.Token},
		{"GITHUB_OWNER", &cfg.Owner},
		{"GITHUB_REPO", &cfg.Repo},
		{"WORK_TREE", &cfg.WorkTree},
		{"CHECKER_PATH", &cfg.CheckerPath},
		{"CHECKER_CONFIG_PATH", &cfg.CheckerConfigPath},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.field = v
		}
	}
}

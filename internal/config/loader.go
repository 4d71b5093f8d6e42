package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// envPattern matches ${VAR} and ${VAR:-default} expressions.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// Load reads a YAML configuration file over the defaults, expands
// environment variables in it, and applies TELEGRAM_* / BOTAPI_*
// environment overrides.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded, err := expandEnv(raw)
	if err != nil {
		return nil, fmt.Errorf("config: expanding variables in %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv builds a configuration from the defaults and the environment
// alone. The given .env files are loaded first when they exist; variables
// already set in the process win over them.
func LoadEnv(dotenvFiles ...string) (*Config, error) {
	if err := LoadDotenv(dotenvFiles...); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: encoding: %w", err)
	}
	return data, nil
}

// expandEnv substitutes ${VAR} and ${VAR:-default} in raw YAML. As in
// the shell, the default also applies when VAR is set but empty, and
// "\}" inside a default stands for "}". Every variable with neither a
// value nor a default is reported once.
func expandEnv(raw []byte) ([]byte, error) {
	var missing []string

	out := envPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		m := envPattern.FindSubmatch(match)
		name := string(m[1])
		if v := os.Getenv(name); v != "" {
			return []byte(v)
		}
		if m[2] != nil {
			return []byte(strings.ReplaceAll(string(m[2]), `\}`, "}"))
		}
		if _, set := os.LookupEnv(name); set {
			return nil
		}
		if !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
		return match
	})

	if len(missing) > 0 {
		return out, fmt.Errorf("unresolved variables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

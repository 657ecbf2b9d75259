package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvFile names the environment variable holding the config file path.
const EnvFile = "SCOREBOOK_CONFIG"

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. the YAML file named by SCOREBOOK_CONFIG, if set
//  3. environment variables with prefix SCOREBOOK_
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// SCOREBOOK_LOG_LEVEL -> log_level. Keys are flat.
	envProvider := env.Provider("SCOREBOOK_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "scorebook_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	// The file path variable is not a config key.
	k.Delete("config")

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

package pressfront

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadSettings builds a SiteConfig from the settings file at path.
//
// .env files are loaded first (ENV_FILE if set, otherwise .env.local then
// .env); existing environment variables are never overwritten. The YAML file
// is optional: a missing file leaves the config to the environment alone.
// Environment variables override file values, then defaults fill the gaps.
func LoadSettings(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if err := loadEnvFiles(); err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("pressfront: read settings %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("pressfront: parse settings %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("pressfront: env overrides: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func loadEnvFiles() error {
	if f := os.Getenv("ENV_FILE"); f != "" {
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("pressfront: load env file %s: %w", f, err)
		}
		return nil
	}
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("pressfront: load %s: %w", f, err)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{"config.yaml", "config.yml"}

// Load resolves configuration with precedence env > YAML file > defaults.
// A .env file in the working directory is loaded into the environment first.
func Load() (App, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env", "err", err)
	}

	k := koanf.New(".")
	d := defaults()
	if err := k.Load(structs.Provider(&d, "koanf"), nil); err != nil {
		return App{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return App{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// APP_PORT -> app_port, JWT_SECRET -> jwt_secret ...
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return App{}, fmt.Errorf("load env: %w", err)
	}

	// PORT is what most platforms inject; it wins over APP_PORT.
	if p := os.Getenv("PORT"); p != "" {
		if err := k.Set("app_port", p); err != nil {
			return App{}, err
		}
	}

	if err := splitCSV(k, "cors_origins"); err != nil {
		return App{}, err
	}

	var cfg App
	if err := k.Unmarshal("", &cfg); err != nil {
		return App{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return App{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitCSV turns a comma-separated env value into a slice. Values that came
// from YAML are already slices and are left alone.
func splitCSV(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return k.Set(path, out)
}

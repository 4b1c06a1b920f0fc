package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the airdropd daemon configuration. Economic constants of the
// engine are compiled in and deliberately absent here.
type Config struct {
	ListenAddress string    `toml:"ListenAddress"`
	DataDir       string    `toml:"DataDir"`
	Environment   string    `toml:"Environment"`
	Ownership     Ownership `toml:"Ownership"`
	RateLimit     RateLimit `toml:"RateLimit"`
	Genesis       Genesis   `toml:"Genesis"`
	Logging       Logging   `toml:"Logging"`
	Telemetry     Telemetry `toml:"Telemetry"`
}

// Default returns the configuration written on first start.
func Default() *Config {
	return &Config{
		ListenAddress: ":8080",
		DataDir:       "./airdrop-data",
		Environment:   "local",
		Ownership: Ownership{
			Driver: DriverSQLite,
			DSN:    "file:airdrop-data/ownership.db",
		},
		RateLimit: RateLimit{RequestsPerMinute: 60, Burst: 10},
		Logging:   Logging{Level: "info", MaxSizeMB: 100, MaxBackups: 5, MaxAgeDays: 30},
	}
}

// Load loads the configuration from the given path, writing the defaults
// there first if the file does not exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	} else if err != nil {
		return nil, err
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("config file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Ownership.Driver = strings.ToLower(strings.TrimSpace(cfg.Ownership.Driver))
	if cfg.Ownership.Driver == "" {
		cfg.Ownership.Driver = DriverSQLite
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := Default()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

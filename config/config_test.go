package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "airdropd.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddress)
	require.Equal(t, DriverSQLite, cfg.Ownership.Driver)

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, reloaded)
}

func TestLoadParsesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airdropd.toml")
	contents := `ListenAddress = "127.0.0.1:9090"
DataDir = "/var/lib/airdrop"
Environment = "prod"

[Ownership]
Driver = "Postgres"
DSN = "postgres://drop:secret@db/owners"

[RateLimit]
RequestsPerMinute = 30
Burst = 3

[Genesis]
TreasuryFunding = "102000000000000"

[Logging]
Level = "debug"
File = "/var/log/airdropd.log"

[Telemetry]
Traces = true
SampleRatio = 0.25
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.ListenAddress)
	require.Equal(t, DriverPostgres, cfg.Ownership.Driver)
	require.Equal(t, 30.0, cfg.RateLimit.RequestsPerMinute)
	require.Equal(t, 3, cfg.RateLimit.Burst)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, 100, cfg.Logging.MaxSizeMB)
	require.True(t, cfg.Telemetry.Traces)

	funding, err := cfg.Genesis.Funding()
	require.NoError(t, err)
	require.Equal(t, "102000000000000", funding.String())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airdropd.toml")
	require.NoError(t, os.WriteFile(path, []byte("ListenAddress = \":1\"\nWindow = 60\n"), 0o600))
	_, err := Load(path)
	require.ErrorContains(t, err, "Window")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	broken := *cfg
	broken.Ownership = Ownership{Driver: DriverStatic}
	require.Error(t, broken.Validate())

	broken = *cfg
	broken.Ownership = Ownership{Driver: "mongo", DSN: "x"}
	require.Error(t, broken.Validate())

	broken = *cfg
	broken.Genesis.TreasuryFunding = "-5"
	require.Error(t, broken.Validate())

	broken = *cfg
	broken.RateLimit = RateLimit{RequestsPerMinute: 10}
	require.Error(t, broken.Validate())

	broken = *cfg
	broken.Telemetry.SampleRatio = 2
	require.Error(t, broken.Validate())
}

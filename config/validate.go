package config

import (
	"fmt"
	"math/big"
	"strings"
)

// Ownership drivers accepted by Validate.
const (
	DriverStatic   = "static"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Validate rejects configurations the daemon cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddress) == "" {
		return fmt.Errorf("config: ListenAddress required")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: DataDir required")
	}
	switch c.Ownership.Driver {
	case DriverStatic:
		if strings.TrimSpace(c.Ownership.Fixture) == "" {
			return fmt.Errorf("ownership: static driver requires Fixture")
		}
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(c.Ownership.DSN) == "" {
			return fmt.Errorf("ownership: %s driver requires DSN", c.Ownership.Driver)
		}
	default:
		return fmt.Errorf("ownership: unsupported driver %q", c.Ownership.Driver)
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("ratelimit: RequestsPerMinute must not be negative")
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("ratelimit: Burst must be positive when limiting")
	}
	if _, err := c.Genesis.Funding(); err != nil {
		return err
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry: SampleRatio must be within [0, 1]")
	}
	return nil
}

// Funding parses TreasuryFunding. An empty value means no funding.
func (g Genesis) Funding() (*big.Int, error) {
	trimmed := strings.TrimSpace(g.TreasuryFunding)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("genesis: invalid TreasuryFunding %q", g.TreasuryFunding)
	}
	if amount.BitLen() > 256 {
		return nil, fmt.Errorf("genesis: TreasuryFunding exceeds 256 bits")
	}
	return amount, nil
}

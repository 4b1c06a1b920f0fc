package config

// Ownership selects the ownership directory backend.
type Ownership struct {
	// Driver is one of "static", "sqlite" or "postgres".
	Driver string `toml:"Driver"`
	// DSN is the gorm connection string for the SQL drivers.
	DSN string `toml:"DSN"`
	// Fixture is the YAML file loaded by the static driver.
	Fixture string `toml:"Fixture"`
}

// RateLimit bounds distribution requests per client address.
type RateLimit struct {
	RequestsPerMinute float64 `toml:"RequestsPerMinute"`
	Burst             int     `toml:"Burst"`
}

// Genesis holds one-time funding applied on the first start.
type Genesis struct {
	// TreasuryFunding is minted to the treasury in reward token base units.
	TreasuryFunding string `toml:"TreasuryFunding"`
}

// Logging configures the process logger.
type Logging struct {
	Level      string `toml:"Level"`
	File       string `toml:"File"`
	MaxSizeMB  int    `toml:"MaxSizeMB"`
	MaxBackups int    `toml:"MaxBackups"`
	MaxAgeDays int    `toml:"MaxAgeDays"`
}

// Telemetry configures OTLP exporters.
type Telemetry struct {
	Endpoint    string  `toml:"Endpoint"`
	Insecure    bool    `toml:"Insecure"`
	Headers     string  `toml:"Headers"`
	Traces      bool    `toml:"Traces"`
	Metrics     bool    `toml:"Metrics"`
	SampleRatio float64 `toml:"SampleRatio"`
}

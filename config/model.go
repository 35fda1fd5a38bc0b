package config

import "time"

const (
	ColumnSymbol  = "Symbol"
	ColumnAddress = "Address"
	ColumnPrice   = "Price"
	ColumnChain   = "Chain"
	ColumnUpdated = "Updated"
)

const (
	DefaultBaseURL       = "https://api.competitions.recall.network"
	DefaultChain         = "evm"
	DefaultSpecificChain = "eth"
	DefaultTimeout       = 30
)

func supportedColumns() []string {
	return []string{ColumnSymbol, ColumnAddress, ColumnPrice, ColumnChain, ColumnUpdated}
}

// Env is what we read from the process environment (and .env)
type Env struct {
	APIKey string `envconfig:"API_KEY"`
	APIURL string `envconfig:"API_URL" default:"https://api.competitions.recall.network"`
}

type Config struct {
	APIKey        string   `mapstructure:"api_key"`
	APIURL        string   `mapstructure:"api_url"`
	Chain         string   `mapstructure:"chain"`
	SpecificChain string   `mapstructure:"specific_chain"`
	Timeout       int      `mapstructure:"timeout"`
	Proxy         string   `mapstructure:"proxy"`
	Refresh       int      `mapstructure:"refresh"`
	Columns       []string `mapstructure:"show"`
	Debug         bool     `mapstructure:"debug"`
	Tokens        []string `mapstructure:"tokens"`
}

func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh) * time.Second
}

package configs

import (
	"github.com/sherifabdlnaby/configuro"
)

// Config values can be set using either environment variables with `CONFIG_`
// prefix or a config.yml file placed in the working directory.
// See https://github.com/sherifabdlnaby/configuro.
type Config struct {
	Logging Logging
	Mtgox   Mtgox
	Sim     Sim
}

type Logging struct {
	Level  string
	Format string
}

type Mtgox struct {
	Key      string
	Secret   string
	Currency string
}

// Sim drives the simulated exchange the demo binary trades against.
type Sim struct {
	Price  string
	Spread string
	Fee    float64
}

func ReadConfig() (*Config, error) {
	loader, err := configuro.NewConfig()
	if err != nil {
		return nil, err
	}

	// Default config values.
	config := &Config{
		Logging: Logging{
			Level: "info",
		},
		Mtgox: Mtgox{
			Currency: "USD",
		},
		Sim: Sim{
			Price:  "100.5",
			Spread: "1",
			Fee:    0.6,
		},
	}

	err = loader.Load(config)
	if err != nil {
		return nil, err
	}

	err = loader.Validate(config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

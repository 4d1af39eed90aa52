package configs

import (
	"os"
	"testing"
)

func TestReadConfigDefaults(t *testing.T) {
	config, err := ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig() error = %v, want nil", err)
	}

	if config.Logging.Level != "info" {
		t.Fatalf("logging level = %q, want info", config.Logging.Level)
	}
	if config.Mtgox.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", config.Mtgox.Currency)
	}
	if config.Sim.Price != "100.5" {
		t.Fatalf("sim price = %q, want 100.5", config.Sim.Price)
	}
	if config.Sim.Fee != 0.6 {
		t.Fatalf("sim fee = %v, want 0.6", config.Sim.Fee)
	}
}

func TestReadConfigEnvOverride(t *testing.T) {
	if err := os.Setenv("CONFIG_MTGOX_CURRENCY", "EUR"); err != nil {
		t.Fatalf("Setenv() error = %v", err)
	}
	defer os.Unsetenv("CONFIG_MTGOX_CURRENCY")

	config, err := ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig() error = %v, want nil", err)
	}

	if config.Mtgox.Currency != "EUR" {
		t.Fatalf("currency = %q, want EUR", config.Mtgox.Currency)
	}
}

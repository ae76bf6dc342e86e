package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"RISK_FREE_RATE", "VALUATION_POLICY", "PRICE_SOURCE", "SHOW_PROGRESS", "RANDOM_PRICE_SEED"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RiskFreeRate != 0.01 || cfg.ValuationPolicy != "mark-to-market" || cfg.PriceSource != PriceSourcePostgres {
		t.Errorf("Load() defaults got = %+v", cfg)
	}
	if cfg.ShowProgress || cfg.RandomSeed != 0 {
		t.Errorf("Load() defaults got = %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RISK_FREE_RATE", "0.02")
	t.Setenv("VALUATION_POLICY", "realized-only")
	t.Setenv("CHECKPOINT_GRANULARITY", "daily")
	t.Setenv("PRICE_SOURCE", PriceSourceSeededRandom)
	t.Setenv("RANDOM_PRICE_SEED", "9")
	t.Setenv("SHOW_PROGRESS", "yes")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RiskFreeRate != 0.02 || cfg.ValuationPolicy != "realized-only" || cfg.CheckpointGranularity != "daily" {
		t.Errorf("Load() got = %+v", cfg)
	}
	if cfg.PriceSource != PriceSourceSeededRandom || cfg.RandomSeed != 9 || !cfg.ShowProgress || cfg.LogFormat != "json" {
		t.Errorf("Load() got = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_UnparsableFallsBack(t *testing.T) {
	t.Setenv("RISK_FREE_RATE", "abc")
	t.Setenv("RANDOM_PRICE_SEED", "x")
	cfg, _ := Load()
	if cfg.RiskFreeRate != 0.01 || cfg.RandomSeed != 0 {
		t.Errorf("Load() got = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabaseURL:           "postgres://localhost/db",
		ValuationPolicy:       "mark-to-market",
		CheckpointGranularity: "event",
		PriceSource:           PriceSourcePostgres,
		RandomPriceMin:        300,
		RandomPriceMax:        400,
		LogFormat:             "text",
	}
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr []string
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, []string{"DATABASE_URL"}},
		{"random range inverted", func(c *Config) {
			c.PriceSource = PriceSourceRandom
			c.RandomPriceMin = 500
		}, []string{"RANDOM_PRICE_MIN"}},
		{"every problem reported", func(c *Config) {
			c.PriceSource = "oracle"
			c.ValuationPolicy = "fifo"
			c.CheckpointGranularity = "weekly"
			c.LogFormat = "xml"
		}, []string{"PRICE_SOURCE", "VALUATION_POLICY", "CHECKPOINT_GRANULARITY", "LOG_FORMAT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Validate() error %q missing %q", err, want)
				}
			}
		})
	}
}

package config

import "testing"

func TestEnvtoInt(t *testing.T) {
	if got := EnvtoInt("42", 7); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := EnvtoInt("", 7); got != 7 {
		t.Errorf("empty value must fall back, got %d", got)
	}
	if got := EnvtoInt("not a number", 7); got != 7 {
		t.Errorf("garbage must fall back, got %d", got)
	}
}

func TestEnvtoFloat(t *testing.T) {
	if got := EnvtoFloat("0.002", 0.001); got != 0.002 {
		t.Errorf("expected 0.002, got %v", got)
	}
	if got := EnvtoFloat("", 0.001); got != 0.001 {
		t.Errorf("empty value must fall back, got %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("RESEARCH_MAX_CONCURRENT", "")
	t.Setenv("DEFAULT_FEES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Port != 5432 {
		t.Errorf("database defaults wrong: %+v", cfg.Database)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Research.MaxConcurrent != 4 {
		t.Errorf("expected default concurrency 4, got %d", cfg.Research.MaxConcurrent)
	}
	if cfg.Backtest.Fees != 0.001 {
		t.Errorf("expected default fees 0.001, got %v", cfg.Backtest.Fees)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("RESEARCH_MAX_CONCURRENT", "12")
	t.Setenv("DEFAULT_SLIPPAGE", "0.005")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Server.Port)
	}
	if cfg.Research.MaxConcurrent != 12 {
		t.Errorf("expected concurrency 12, got %d", cfg.Research.MaxConcurrent)
	}
	if cfg.Backtest.Slippage != 0.005 {
		t.Errorf("expected slippage 0.005, got %v", cfg.Backtest.Slippage)
	}
}

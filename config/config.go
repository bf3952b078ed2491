package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Load() (*config, error) {
	// Missing .env is fine in containerized deploys; real env wins anyway.
	_ = godotenv.Load()

	return &config{
		Exchange: ExchangeConfig{
			APIKey:    os.Getenv("BINANCE_API_KEY"),
			SecretKey: os.Getenv("BINANCE_SECRET_KEY"),
		},
		Database: DatabaseConfig{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     EnvtoInt(os.Getenv("DB_PORT"), 5432),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   envOr("DB_NAME", "vibewater"),
		},
		Server: ServerConfig{
			Port: EnvtoInt(os.Getenv("SERVER_PORT"), 8080),
		},
		Research: ResearchConfig{
			MaxConcurrent: EnvtoInt(os.Getenv("RESEARCH_MAX_CONCURRENT"), 4),
		},
		Backtest: BacktestDefaults{
			Fees:     EnvtoFloat(os.Getenv("DEFAULT_FEES"), 0.001),
			Slippage: EnvtoFloat(os.Getenv("DEFAULT_SLIPPAGE"), 0.001),
		},
	}, nil
}

// helper env(string) to int
func EnvtoInt(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return i
}

// helper env(string) to float
func EnvtoFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

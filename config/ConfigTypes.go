package config

type config struct {
	Exchange ExchangeConfig
	Database DatabaseConfig
	Server   ServerConfig
	Research ResearchConfig
	Backtest BacktestDefaults
}

type ExchangeConfig struct {
	APIKey    string
	SecretKey string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type ServerConfig struct {
	Port int
}

// ResearchConfig bounds the batch research worker pool.
type ResearchConfig struct {
	MaxConcurrent int
}

// BacktestDefaults are applied when a request omits cost parameters.
type BacktestDefaults struct {
	Fees     float64
	Slippage float64
}

package models

import (
	"encoding/json"
	"time"
)

// BacktestParams configures a single backtest run. Dates are inclusive
// calendar dates; fees and slippage are fractions per trade.
type BacktestParams struct {
	Symbols        []string  `json:"symbols"`
	Timeframe      string    `json:"timeframe"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	InitialCapital float64   `json:"initial_capital"`
	Benchmark      string    `json:"benchmark"`
	Fees           float64   `json:"fees"`
	Slippage       float64   `json:"slippage"`
	PositionSizing string    `json:"position_sizing"`
	Exposure       float64   `json:"exposure"`
}

// Validate checks the invariants that make a run meaningless rather than
// merely degraded. Violations are fatal InputErrors.
func (p *BacktestParams) Validate() error {
	if !p.StartDate.Before(p.EndDate) {
		return &InputError{Field: "start_date", Value: p.StartDate.Format("2006-01-02"),
			Reason: "start_date must be before end_date"}
	}
	if p.InitialCapital <= 0 {
		return &InputError{Field: "initial_capital", Value: p.InitialCapital,
			Reason: "initial capital must be positive"}
	}
	if p.Fees < 0 {
		return &InputError{Field: "fees", Value: p.Fees, Reason: "fees cannot be negative"}
	}
	if p.Slippage < 0 {
		return &InputError{Field: "slippage", Value: p.Slippage, Reason: "slippage cannot be negative"}
	}
	if p.Exposure <= 0 || p.Exposure > 1 {
		return &InputError{Field: "exposure", Value: p.Exposure,
			Reason: "exposure must be in (0, 1]"}
	}
	return nil
}

// Symbol returns the primary traded symbol.
func (p *BacktestParams) Symbol() string {
	if len(p.Symbols) == 0 {
		return "BTC"
	}
	return p.Symbols[0]
}

// EquityPoint is one bar of the simulated equity curve. Points are emitted
// one per input bar in ascending chronological order; downstream metrics
// rely on that ordering.
type EquityPoint struct {
	Date       time.Time `json:"date"`
	Value      float64   `json:"value"`
	Benchmark  *float64  `json:"benchmark,omitempty"`
	AssetPrice *float64  `json:"btc_price,omitempty"`
}

// Trade sides. Every completed position produces a BUY/SELL pair; ReturnPct
// is set on the SELL leg only.
const (
	TradeSideBuy  = "BUY"
	TradeSideSell = "SELL"
)

type Trade struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Side      string    `json:"type"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
	Amount    float64   `json:"amount"`
	ReturnPct *float64  `json:"return_pct,omitempty"`
}

// BacktestMetrics summarises a completed simulation. Percentages are in
// percent units (total_return = 12.5 means +12.5%); max_drawdown is negative.
type BacktestMetrics struct {
	TotalAmountInvested float64 `json:"total_amount_invested"`
	TotalGain           float64 `json:"total_gain"`
	TotalLoss           float64 `json:"total_loss"`
	TotalReturn         float64 `json:"total_return"`
	CAGR                float64 `json:"cagr"`
	SharpeRatio         float64 `json:"sharpe_ratio"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	MaxDrawdownDuration int     `json:"max_drawdown_duration"`
	WinRate             float64 `json:"win_rate"`
	Trades              int     `json:"trades"`
	VsBenchmark         float64 `json:"vs_benchmark"`
}

// StrategyPerformanceRanking scores one strategy inside a research batch.
// Rank is 1-based and reassigned whenever the batch changes.
type StrategyPerformanceRanking struct {
	StrategyID         string  `json:"strategy_id"`
	PerformanceScore   float64 `json:"performance_score"`
	RiskAdjustedReturn float64 `json:"risk_adjusted_return"`
	ConsistencyScore   float64 `json:"consistency_score"`
	MarketAdaptability float64 `json:"market_adaptability"`
	Rank               int     `json:"rank"`
}

// BacktestRun is the persisted record of one completed backtest.
type BacktestRun struct {
	ID         string          `gorm:"primaryKey" json:"id"`
	StrategyID string          `gorm:"index;not null" json:"strategy_id"`
	Params     json.RawMessage `gorm:"type:jsonb" json:"params"`
	Metrics    json.RawMessage `gorm:"type:jsonb" json:"metrics"`
	Equity     json.RawMessage `gorm:"type:jsonb" json:"equity_series"`
	Trades     json.RawMessage `gorm:"type:jsonb" json:"trades"`
	Warnings   json.RawMessage `gorm:"type:jsonb" json:"warnings"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (BacktestRun) TableName() string {
	return "backtest_runs"
}

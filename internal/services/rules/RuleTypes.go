package rules

// Indicator kinds understood by the parser and the indicator engine.
const (
	IndicatorMA     = "MA"
	IndicatorRSI    = "RSI"
	IndicatorMACD   = "MACD"
	IndicatorBBands = "BBANDS"
)

// IndicatorSpec is a pure value describing one indicator to compute.
type IndicatorSpec struct {
	Kind    string  `json:"kind"`
	Period  int     `json:"period,omitempty"`   // MA, RSI, BBANDS
	Fast    int     `json:"fast,omitempty"`     // MACD
	Slow    int     `json:"slow,omitempty"`     // MACD
	Signal  int     `json:"signal,omitempty"`   // MACD
	StdMult float64 `json:"std_mult,omitempty"` // BBANDS
}

// Signal rule kinds.
const (
	RuleMACross      = "ma_cross"
	RuleRSIThreshold = "rsi_threshold"
	RulePriceMove    = "price_move"
)

// SignalRule is the typed entry/exit condition derived from rule text.
//
//   - ma_cross: enter when the fast MA crosses above the slow MA, exit on
//     the mirror crossing.
//   - rsi_threshold: enter when RSI crosses below Oversold, exit when it
//     crosses above Overbought.
//   - price_move: enter on a single-bar drop below -5%, exit on a single-bar
//     gain above +5%. Used only when no indicator rule could be derived.
type SignalRule struct {
	Kind       string  `json:"kind"`
	FastPeriod int     `json:"fast_period,omitempty"`
	SlowPeriod int     `json:"slow_period,omitempty"`
	RSIPeriod  int     `json:"rsi_period,omitempty"`
	Oversold   float64 `json:"oversold,omitempty"`
	Overbought float64 `json:"overbought,omitempty"`
}

// Defaults applied when rule text is silent.
const (
	DefaultFastPeriod = 10
	DefaultSlowPeriod = 30
	DefaultRSIPeriod  = 14
	DefaultOversold   = 30.0
	DefaultOverbought = 70.0
	DefaultCategory   = "Bitcoin"
)

// ParsedStrategy is the Rule Parser's full output for one schema.
type ParsedStrategy struct {
	Category      string          `json:"category"`
	Specs         []IndicatorSpec `json:"indicators"`
	Rule          SignalRule      `json:"rule"`
	StopLossPct   *float64        `json:"stop_loss_pct,omitempty"`
	TakeProfitPct *float64        `json:"take_profit_pct,omitempty"`
	Warnings      []string        `json:"warnings,omitempty"`
}

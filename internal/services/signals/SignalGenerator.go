package signals

import (
	"github.com/sayyidkhan/vibewater-associates/internal/services/indicators"
	"github.com/sayyidkhan/vibewater-associates/internal/services/rules"
)

// Generator turns a signal rule into boolean entry/exit sequences aligned
// 1:1 with the price series. Bars inside an indicator's warm-up region are
// always false for both.
type Generator struct {
	engine *indicators.Engine
}

func NewGenerator(engine *indicators.Engine) *Generator {
	return &Generator{engine: engine}
}

// Generate produces entry and exit signals for the rule over the close
// prices. Signals use strict-crossing semantics: a condition that merely
// persists does not re-fire.
func (g *Generator) Generate(prices []float64, rule rules.SignalRule) (entries, exits []bool) {
	switch rule.Kind {
	case rules.RuleMACross:
		fast := g.engine.MA(prices, rule.FastPeriod)
		slow := g.engine.MA(prices, rule.SlowPeriod)
		entries = crossAbove(fast, slow)
		exits = crossBelow(fast, slow)
	case rules.RuleRSIThreshold:
		rsi := g.engine.RSI(prices, rule.RSIPeriod)
		entries = crossBelowLevel(rsi, rule.Oversold)
		exits = crossAboveLevel(rsi, rule.Overbought)
	default:
		entries, exits = priceMoveSignals(prices)
	}
	return entries, exits
}

// crossAbove is true at i iff a[i-1] <= b[i-1] and a[i] > b[i], with all four
// values defined.
func crossAbove(a, b []float64) []bool {
	out := make([]bool, len(a))
	for i := 1; i < len(a); i++ {
		if !defined(a[i-1], b[i-1], a[i], b[i]) {
			continue
		}
		out[i] = a[i-1] <= b[i-1] && a[i] > b[i]
	}
	return out
}

func crossBelow(a, b []float64) []bool {
	out := make([]bool, len(a))
	for i := 1; i < len(a); i++ {
		if !defined(a[i-1], b[i-1], a[i], b[i]) {
			continue
		}
		out[i] = a[i-1] >= b[i-1] && a[i] < b[i]
	}
	return out
}

func crossBelowLevel(series []float64, level float64) []bool {
	out := make([]bool, len(series))
	for i := 1; i < len(series); i++ {
		if !defined(series[i-1], series[i]) {
			continue
		}
		out[i] = series[i-1] >= level && series[i] < level
	}
	return out
}

func crossAboveLevel(series []float64, level float64) []bool {
	out := make([]bool, len(series))
	for i := 1; i < len(series); i++ {
		if !defined(series[i-1], series[i]) {
			continue
		}
		out[i] = series[i-1] <= level && series[i] > level
	}
	return out
}

// priceMoveSignals is the last-resort heuristic when no indicator rule could
// be parsed: enter on a single-bar drop worse than -5%, exit on a single-bar
// gain better than +5%.
func priceMoveSignals(prices []float64) (entries, exits []bool) {
	entries = make([]bool, len(prices))
	exits = make([]bool, len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		change := prices[i]/prices[i-1] - 1
		entries[i] = change < -0.05
		exits[i] = change > 0.05
	}
	return entries, exits
}

func defined(vs ...float64) bool {
	for _, v := range vs {
		if !indicators.HasValue(v) {
			return false
		}
	}
	return true
}

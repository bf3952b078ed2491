package backtest

import (
	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

// SimulationResult is the raw output of one portfolio walk: the equity curve
// (one point per input bar, ascending, with benchmark and asset price filled
// in), and the trade log as BUY/SELL pairs. A position still open at series
// end leaves a dangling BUY whose value is reflected in the final equity
// point rather than in a SELL record.
type SimulationResult struct {
	Equity []models.EquityPoint
	Trades []models.Trade
}

// CompletedPairs groups the trade log into (BUY, SELL) pairs, dropping an
// unmatched trailing BUY.
func (r *SimulationResult) CompletedPairs() [][2]models.Trade {
	var pairs [][2]models.Trade
	var open *models.Trade
	for i := range r.Trades {
		t := r.Trades[i]
		switch t.Side {
		case models.TradeSideBuy:
			open = &r.Trades[i]
		case models.TradeSideSell:
			if open != nil {
				pairs = append(pairs, [2]models.Trade{*open, t})
				open = nil
			}
		}
	}
	return pairs
}

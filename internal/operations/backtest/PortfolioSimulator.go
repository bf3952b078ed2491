package backtest

import (
	"fmt"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

// Simulator walks a price series applying entry/exit signals with fee and
// slippage costs and optional stop-loss / take-profit triggers. The position
// state machine is Flat -> Entered -> Flat; at most one transition happens
// per bar.
type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

// Simulate runs the portfolio walk. prices, entries and exits must be the
// same length; prices must already be validated as ascending. stopLossPct
// and takeProfitPct are percentages (5 means 5%); nil disables the trigger.
//
// When a stop-loss and take-profit are both breached on the same bar, the
// stop-loss wins. That bias toward capital preservation is a deliberate
// policy, not an accident of evaluation order.
func (s *Simulator) Simulate(
	prices []models.PricePoint,
	entries, exits []bool,
	params *models.BacktestParams,
	stopLossPct, takeProfitPct *float64,
) (*SimulationResult, error) {
	if len(entries) != len(prices) || len(exits) != len(prices) {
		return nil, &models.InputError{
			Field:  "signals",
			Value:  fmt.Sprintf("%d entries, %d exits, %d bars", len(entries), len(exits), len(prices)),
			Reason: "signal sequences must align 1:1 with the price series",
		}
	}

	symbol := params.Symbol()
	cash := params.InitialCapital
	quantity := 0.0
	entryPrice := 0.0 // slippage-adjusted fill of the open position
	entered := false
	pairIdx := 0

	// Passive benchmark: buy and hold the same capital from bar 0.
	benchQty := params.InitialCapital / prices[0].Close

	result := &SimulationResult{
		Equity: make([]models.EquityPoint, 0, len(prices)),
		Trades: make([]models.Trade, 0),
	}

	for i := range prices {
		bar := prices[i]

		if entered {
			if closed, fill := s.checkClose(bar.Close, entryPrice, exits[i], stopLossPct, takeProfitPct, params.Slippage); closed {
				notional := quantity * fill
				fee := notional * params.Fees
				cash += notional - fee

				returnPct := (fill/entryPrice - 1) * 100
				result.Trades = append(result.Trades, models.Trade{
					ID:        fmt.Sprintf("trade-%d-exit", pairIdx),
					Date:      bar.Time,
					Side:      models.TradeSideSell,
					Symbol:    symbol,
					Price:     fill,
					Quantity:  quantity,
					Amount:    notional,
					ReturnPct: &returnPct,
				})
				pairIdx++
				quantity = 0
				entered = false
			}
		} else if entries[i] {
			fill := bar.Close * (1 + params.Slippage)
			notional := cash * params.Exposure
			fee := notional * params.Fees
			quantity = notional / fill
			cash -= notional + fee
			entryPrice = fill
			entered = true

			result.Trades = append(result.Trades, models.Trade{
				ID:       fmt.Sprintf("trade-%d-entry", pairIdx),
				Date:     bar.Time,
				Side:     models.TradeSideBuy,
				Symbol:   symbol,
				Price:    fill,
				Quantity: quantity,
				Amount:   notional,
			})
		}

		value := cash
		if entered {
			value += quantity * bar.Close
		}
		benchmark := benchQty * bar.Close
		assetPrice := bar.Close
		result.Equity = append(result.Equity, models.EquityPoint{
			Date:       bar.Time,
			Value:      value,
			Benchmark:  &benchmark,
			AssetPrice: &assetPrice,
		})
	}

	return result, nil
}

// checkClose decides whether the open position closes on this bar and at
// what fill price. Stop-loss is evaluated before take-profit, and both
// before the exit signal; triggered closes fill at the trigger price with
// no further slippage, signal closes fill below the close by slippage.
func (s *Simulator) checkClose(
	close, entryPrice float64,
	exitSignal bool,
	stopLossPct, takeProfitPct *float64,
	slippage float64,
) (bool, float64) {
	if stopLossPct != nil {
		stopPrice := entryPrice * (1 - *stopLossPct/100)
		if close <= stopPrice {
			return true, stopPrice
		}
	}
	if takeProfitPct != nil {
		targetPrice := entryPrice * (1 + *takeProfitPct/100)
		if close >= targetPrice {
			return true, targetPrice
		}
	}
	if exitSignal {
		return true, close * (1 - slippage)
	}
	return false, 0
}

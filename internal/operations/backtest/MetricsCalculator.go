package backtest

import (
	"math"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

// MetricsCalculator reduces an equity curve and trade log into standard
// performance metrics. Degenerate inputs (flat curves, zero trades, zero
// duration) resolve to safe zero values, never NaN or a panic.
type MetricsCalculator struct{}

func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

const (
	daysPerYear        = 365.25
	tradingDaysPerYear = 252
)

// Compute derives the metrics for one completed simulation.
func (c *MetricsCalculator) Compute(result *SimulationResult, params *models.BacktestParams) models.BacktestMetrics {
	m := models.BacktestMetrics{
		TotalAmountInvested: params.InitialCapital,
	}
	if len(result.Equity) == 0 {
		return m
	}

	first := result.Equity[0]
	last := result.Equity[len(result.Equity)-1]

	m.TotalReturn = (last.Value/params.InitialCapital - 1) * 100
	m.CAGR = c.cagr(first, last, params.InitialCapital)
	m.SharpeRatio = c.sharpe(result.Equity)
	m.MaxDrawdown, m.MaxDrawdownDuration = c.maxDrawdown(result.Equity)

	pairs := result.CompletedPairs()
	m.Trades = len(pairs)
	wins := 0
	for _, pair := range pairs {
		pnl := pair[1].Amount - pair[0].Amount
		if pnl > 0 {
			m.TotalGain += pnl
			wins++
		} else {
			m.TotalLoss += -pnl
		}
	}
	if len(pairs) > 0 {
		m.WinRate = float64(wins) / float64(len(pairs)) * 100
	}

	if last.Benchmark != nil {
		benchReturn := (*last.Benchmark/params.InitialCapital - 1) * 100
		m.VsBenchmark = m.TotalReturn - benchReturn
	}

	return m
}

// cagr annualises the total return over the elapsed calendar days; zero or
// negative duration yields zero rather than a division blow-up.
func (c *MetricsCalculator) cagr(first, last models.EquityPoint, initialCapital float64) float64 {
	days := last.Date.Sub(first.Date).Hours() / 24
	if days <= 0 || initialCapital <= 0 || last.Value <= 0 {
		return 0
	}
	return (math.Pow(last.Value/initialCapital, daysPerYear/days) - 1) * 100
}

// sharpe annualises mean/stddev of the bar-to-bar return series by sqrt(252).
// A zero standard deviation (flat curve) yields zero, not NaN.
func (c *MetricsCalculator) sharpe(equity []models.EquityPoint) float64 {
	if len(equity) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, equity[i].Value/prev-1)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	if len(returns) > 1 {
		variance /= float64(len(returns) - 1)
	}
	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return 0
	}

	return mean / stdDev * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown returns the deepest peak-to-trough loss as a negative
// percentage and the longest run of bars spent below a prior peak.
func (c *MetricsCalculator) maxDrawdown(equity []models.EquityPoint) (float64, int) {
	peak := equity[0].Value
	maxDD := 0.0
	longest := 0
	current := 0

	for _, point := range equity {
		if point.Value >= peak {
			peak = point.Value
			current = 0
			continue
		}
		current++
		if current > longest {
			longest = current
		}
		if peak > 0 {
			dd := point.Value/peak - 1
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD * 100, longest
}

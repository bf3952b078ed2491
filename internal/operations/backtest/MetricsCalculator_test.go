package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

func equitySeries(values ...float64) []models.EquityPoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.EquityPoint, len(values))
	for i, v := range values {
		out[i] = models.EquityPoint{Date: base.AddDate(0, 0, i), Value: v}
	}
	return out
}

func TestComputeTotalReturn(t *testing.T) {
	c := NewMetricsCalculator()
	result := &SimulationResult{Equity: equitySeries(10000, 10500, 11000)}

	m := c.Compute(result, testParams())
	if math.Abs(m.TotalReturn-10) > 1e-9 {
		t.Errorf("expected total return 10%%, got %v", m.TotalReturn)
	}
	if m.TotalAmountInvested != 10000 {
		t.Errorf("expected invested 10000, got %v", m.TotalAmountInvested)
	}
}

func TestComputeEmptyEquity(t *testing.T) {
	c := NewMetricsCalculator()
	m := c.Compute(&SimulationResult{}, testParams())

	if m.TotalReturn != 0 || m.CAGR != 0 || m.SharpeRatio != 0 || m.MaxDrawdown != 0 {
		t.Errorf("empty equity must yield zero metrics, got %+v", m)
	}
}

func TestComputeFlatCurveSharpeIsZero(t *testing.T) {
	c := NewMetricsCalculator()
	result := &SimulationResult{Equity: equitySeries(10000, 10000, 10000, 10000)}

	m := c.Compute(result, testParams())
	if m.SharpeRatio != 0 {
		t.Errorf("zero volatility must yield Sharpe 0, got %v", m.SharpeRatio)
	}
	if math.IsNaN(m.SharpeRatio) || math.IsNaN(m.CAGR) {
		t.Error("metrics must never be NaN")
	}
}

func TestComputeCAGRDoubleInOneYear(t *testing.T) {
	c := NewMetricsCalculator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	equity := []models.EquityPoint{
		{Date: base, Value: 10000},
		{Date: base.Add(time.Duration(365.25 * 24 * float64(time.Hour))), Value: 20000},
	}

	m := c.Compute(&SimulationResult{Equity: equity}, testParams())
	if math.Abs(m.CAGR-100) > 0.5 {
		t.Errorf("doubling over one year is ~100%% CAGR, got %v", m.CAGR)
	}
}

func TestComputeMaxDrawdown(t *testing.T) {
	c := NewMetricsCalculator()
	// Peak 12000, trough 9000: -25%. Below-peak run spans three bars.
	result := &SimulationResult{Equity: equitySeries(10000, 12000, 10000, 9000, 11000, 13000)}

	m := c.Compute(result, testParams())
	if math.Abs(m.MaxDrawdown-(-25)) > 1e-9 {
		t.Errorf("expected max drawdown -25%%, got %v", m.MaxDrawdown)
	}
	if m.MaxDrawdownDuration != 3 {
		t.Errorf("expected 3 bars below peak, got %d", m.MaxDrawdownDuration)
	}
}

func TestComputeMonotonicCurveHasNoDrawdown(t *testing.T) {
	c := NewMetricsCalculator()
	result := &SimulationResult{Equity: equitySeries(10000, 10100, 10200, 10300)}

	m := c.Compute(result, testParams())
	if m.MaxDrawdown != 0 || m.MaxDrawdownDuration != 0 {
		t.Errorf("a rising curve has no drawdown, got %v over %d bars", m.MaxDrawdown, m.MaxDrawdownDuration)
	}
}

func TestComputeWinRateFromPairs(t *testing.T) {
	c := NewMetricsCalculator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		{ID: "trade-0-entry", Date: base, Side: models.TradeSideBuy, Amount: 1000},
		{ID: "trade-0-exit", Date: base.AddDate(0, 0, 1), Side: models.TradeSideSell, Amount: 1200},
		{ID: "trade-1-entry", Date: base.AddDate(0, 0, 2), Side: models.TradeSideBuy, Amount: 1200},
		{ID: "trade-1-exit", Date: base.AddDate(0, 0, 3), Side: models.TradeSideSell, Amount: 1100},
		{ID: "trade-2-entry", Date: base.AddDate(0, 0, 4), Side: models.TradeSideBuy, Amount: 1100},
	}
	result := &SimulationResult{Equity: equitySeries(10000, 10100), Trades: trades}

	m := c.Compute(result, testParams())
	if m.Trades != 2 {
		t.Fatalf("only completed pairs count, got %d", m.Trades)
	}
	if math.Abs(m.WinRate-50) > 1e-9 {
		t.Errorf("expected 50%% win rate, got %v", m.WinRate)
	}
	if math.Abs(m.TotalGain-200) > 1e-9 || math.Abs(m.TotalLoss-100) > 1e-9 {
		t.Errorf("expected gain 200 / loss 100, got %v / %v", m.TotalGain, m.TotalLoss)
	}
}

func TestComputeVsBenchmark(t *testing.T) {
	c := NewMetricsCalculator()
	bench := 11000.0
	equity := equitySeries(10000, 12000)
	equity[1].Benchmark = &bench

	m := c.Compute(&SimulationResult{Equity: equity}, testParams())
	// Strategy +20%, benchmark +10%.
	if math.Abs(m.VsBenchmark-10) > 1e-9 {
		t.Errorf("expected +10%% vs benchmark, got %v", m.VsBenchmark)
	}
}

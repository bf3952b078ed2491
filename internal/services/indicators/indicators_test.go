package indicators

import (
	"math"
	"testing"

	"github.com/sayyidkhan/vibewater-associates/internal/services/rules"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMACalculate(t *testing.T) {
	ma := NewMAService()
	prices := []float64{1, 2, 3, 4, 5}
	out := ma.Calculate(prices, 3)

	if len(out) != len(prices) {
		t.Fatalf("expected %d values, got %d", len(prices), len(out))
	}
	for i := 0; i < 2; i++ {
		if HasValue(out[i]) {
			t.Errorf("index %d: expected no value in warm-up region, got %v", i, out[i])
		}
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(out[i+2], w) {
			t.Errorf("index %d: expected %v, got %v", i+2, w, out[i+2])
		}
	}
}

func TestMAShortSeries(t *testing.T) {
	ma := NewMAService()
	out := ma.Calculate([]float64{1, 2}, 5)
	for i, v := range out {
		if HasValue(v) {
			t.Errorf("index %d: series shorter than period must be all undefined, got %v", i, v)
		}
	}
}

func TestMANoLookahead(t *testing.T) {
	ma := NewMAService()
	prices := []float64{10, 11, 9, 12, 13, 8, 14, 15}

	full := ma.Calculate(prices, 3)
	prefix := ma.Calculate(prices[:5], 3)

	for i := range prefix {
		bothUndefined := !HasValue(full[i]) && !HasValue(prefix[i])
		if bothUndefined {
			continue
		}
		if full[i] != prefix[i] {
			t.Errorf("index %d: value changed when future bars were appended (%v vs %v)", i, prefix[i], full[i])
		}
	}
}

func TestRSIWarmupAndBounds(t *testing.T) {
	rsi := NewRSIService()
	prices := []float64{44, 44.5, 43.8, 44.2, 45, 44.7, 45.3, 45.9, 45.5, 46.2,
		46.0, 46.8, 47.1, 46.5, 47.3, 47.9, 47.5, 48.2, 48.0, 48.6}
	out := rsi.Calculate(prices, 14)

	for i := 0; i < 14; i++ {
		if HasValue(out[i]) {
			t.Errorf("index %d: expected no value before one full period of changes", i)
		}
	}
	for i := 14; i < len(out); i++ {
		if !HasValue(out[i]) {
			t.Fatalf("index %d: expected a defined RSI", i)
		}
		if out[i] < 0 || out[i] > 100 {
			t.Errorf("index %d: RSI %v out of [0, 100]", i, out[i])
		}
	}
}

func TestRSIAllGainsIs100(t *testing.T) {
	rsi := NewRSIService()
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	out := rsi.Calculate(prices, 14)
	if !almostEqual(out[len(out)-1], 100) {
		t.Errorf("monotonic gains should pin RSI at 100, got %v", out[len(out)-1])
	}
}

func TestRSIWilderSeed(t *testing.T) {
	rsi := NewRSIService()
	// Alternating +2/-1 changes over period 4: seed avgGain=1, avgLoss=0.5.
	prices := []float64{10, 12, 11, 13, 12}
	out := rsi.Calculate(prices, 4)

	want := 100 - 100/(1+1.0/0.5) // 66.666...
	if !almostEqual(out[4], want) {
		t.Errorf("expected seeded RSI %v, got %v", want, out[4])
	}
}

func TestMACDWarmup(t *testing.T) {
	macd := NewMACDService()
	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + math.Sin(float64(i)/5)*10
	}
	out := macd.Calculate(prices, 12, 26, 9)

	if len(out.MACD) != len(prices) || len(out.Signal) != len(prices) || len(out.Histogram) != len(prices) {
		t.Fatalf("MACD outputs must align with input length")
	}
	for i := 0; i < 25; i++ {
		if HasValue(out.MACD[i]) {
			t.Errorf("index %d: MACD line defined before slow EMA warm-up", i)
		}
	}
	last := len(prices) - 1
	if !HasValue(out.MACD[last]) || !HasValue(out.Signal[last]) || !HasValue(out.Histogram[last]) {
		t.Errorf("expected all MACD lines defined at the end of a long series")
	}
	if HasValue(out.Histogram[last]) && !almostEqual(out.Histogram[last], out.MACD[last]-out.Signal[last]) {
		t.Errorf("histogram must equal line minus signal")
	}
}

func TestBBandsOrdering(t *testing.T) {
	bb := NewBBandsService()
	prices := []float64{10, 12, 11, 13, 15, 14, 16, 13, 12, 15}
	out := bb.Calculate(prices, 5, 2.0)

	for i := 4; i < len(prices); i++ {
		if !HasValue(out.Middle[i]) {
			t.Fatalf("index %d: expected defined middle band", i)
		}
		if out.Upper[i] < out.Middle[i] || out.Middle[i] < out.Lower[i] {
			t.Errorf("index %d: band ordering violated (%v, %v, %v)", i, out.Lower[i], out.Middle[i], out.Upper[i])
		}
	}
}

func TestEngineComputeUnknownKind(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Compute([]float64{1, 2, 3}, rules.IndicatorSpec{Kind: "VWAP"})
	if err == nil {
		t.Fatal("expected an error for an unknown indicator kind")
	}
}

func TestEngineComputeAll(t *testing.T) {
	engine := NewEngine()
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = float64(100 + i)
	}
	specs := []rules.IndicatorSpec{
		{Kind: rules.IndicatorMA, Period: 10},
		{Kind: rules.IndicatorRSI, Period: 14},
	}
	out, err := engine.ComputeAll(prices, specs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 computed series, got %d", len(out))
	}
	if out[0].Spec.Kind != rules.IndicatorMA || len(out[0].Values) != len(prices) {
		t.Errorf("MA output misaligned")
	}
}

package ranking

import (
	"math"
	"sort"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

// Entry is one candidate in a research batch: its backtest metrics plus the
// caller's confidence in the strategy (0..1).
type Entry struct {
	StrategyID string
	Metrics    models.BacktestMetrics
	Confidence float64
}

// Ranker scores and orders a batch of backtested strategies. Ordering is
// fully deterministic: descending performance score, ties broken by smaller
// drawdown magnitude, then by strategy id.
type Ranker struct{}

func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank computes the composite score for every entry and returns them in rank
// order with 1-based ranks reassigned. Any externally supplied rank is
// ignored; rank only has meaning relative to the complete batch.
func (r *Ranker) Rank(entries []Entry) []models.StrategyPerformanceRanking {
	out := make([]models.StrategyPerformanceRanking, 0, len(entries))
	for _, e := range entries {
		out = append(out, r.score(e))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PerformanceScore != out[j].PerformanceScore {
			return out[i].PerformanceScore > out[j].PerformanceScore
		}
		ddI := math.Abs(drawdownOf(entries, out[i].StrategyID))
		ddJ := math.Abs(drawdownOf(entries, out[j].StrategyID))
		if ddI != ddJ {
			return ddI < ddJ
		}
		return out[i].StrategyID < out[j].StrategyID
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// score balances raw return against risk and consistency:
// 40% risk-adjusted return, 30% consistency, 20% market adaptability,
// 10% caller confidence, clamped into [0, 100].
func (r *Ranker) score(e Entry) models.StrategyPerformanceRanking {
	m := e.Metrics

	riskAdjusted := m.SharpeRatio * m.TotalReturn

	consistency := (m.WinRate / 100) * (1 - math.Abs(m.MaxDrawdown)/100)
	consistency = clamp(consistency, 0, 1)

	adaptability := ((m.VsBenchmark + 100) / 100) * math.Min(float64(m.Trades)/100, 1.0)
	if adaptability < 0 {
		adaptability = 0
	}

	score := riskAdjusted*0.4 + consistency*100*0.3 + adaptability*100*0.2 + e.Confidence*100*0.1

	return models.StrategyPerformanceRanking{
		StrategyID:         e.StrategyID,
		PerformanceScore:   clamp(score, 0, 100),
		RiskAdjustedReturn: riskAdjusted,
		ConsistencyScore:   consistency,
		MarketAdaptability: adaptability,
	}
}

func drawdownOf(entries []Entry, strategyID string) float64 {
	for _, e := range entries {
		if e.StrategyID == strategyID {
			return e.Metrics.MaxDrawdown
		}
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package indicators

import (
	"fmt"

	"github.com/sayyidkhan/vibewater-associates/internal/services/rules"
)

// Engine computes any parsed indicator spec over a close-price series.
// All outputs are aligned 1:1 with the input; warm-up regions are NoValue.
type Engine struct {
	ma     *MAService
	rsi    *RSIService
	macd   *MACDService
	bbands *BBandsService
}

// Computed holds the output of one spec. Values is set for single-line
// indicators (MA, RSI); MACD and BBands carry their multi-line tuples.
type Computed struct {
	Spec   rules.IndicatorSpec
	Values []float64
	MACD   *MACDResult
	BBands *BBandsResult
}

func NewEngine() *Engine {
	return &Engine{
		ma:     NewMAService(),
		rsi:    NewRSIService(),
		macd:   NewMACDService(),
		bbands: NewBBandsService(),
	}
}

// Compute evaluates a single spec against the close-price series.
func (e *Engine) Compute(prices []float64, spec rules.IndicatorSpec) (*Computed, error) {
	out := &Computed{Spec: spec}
	switch spec.Kind {
	case rules.IndicatorMA:
		out.Values = e.ma.Calculate(prices, spec.Period)
	case rules.IndicatorRSI:
		out.Values = e.rsi.Calculate(prices, spec.Period)
	case rules.IndicatorMACD:
		out.MACD = e.macd.Calculate(prices, spec.Fast, spec.Slow, spec.Signal)
	case rules.IndicatorBBands:
		out.BBands = e.bbands.Calculate(prices, spec.Period, spec.StdMult)
	default:
		return nil, fmt.Errorf("unknown indicator kind %q", spec.Kind)
	}
	return out, nil
}

// ComputeAll evaluates every spec in order.
func (e *Engine) ComputeAll(prices []float64, specs []rules.IndicatorSpec) ([]*Computed, error) {
	out := make([]*Computed, 0, len(specs))
	for _, spec := range specs {
		c, err := e.Compute(prices, spec)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// MA, RSI expose the underlying services for callers that need a single
// series without building a spec.
func (e *Engine) MA(prices []float64, period int) []float64 {
	return e.ma.Calculate(prices, period)
}

func (e *Engine) RSI(prices []float64, period int) []float64 {
	return e.rsi.Calculate(prices, period)
}

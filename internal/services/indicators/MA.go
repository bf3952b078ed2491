package indicators

import "math"

// NoValue marks bars where an indicator is undefined (the warm-up region
// before enough history exists). It is NaN, never zero, so an undefined bar
// can never be mistaken for a real level.
func NoValue() float64 {
	return math.NaN()
}

// HasValue reports whether an indicator value is defined.
func HasValue(v float64) bool {
	return !math.IsNaN(v)
}

// MAService computes simple moving averages.
type MAService struct{}

func NewMAService() *MAService {
	return &MAService{}
}

// Calculate returns the period-bar simple moving average aligned to the
// input. The first period-1 points are NoValue. The value at index i depends
// only on prices at indices <= i.
func (s *MAService) Calculate(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = NoValue()
	}
	if period <= 0 || len(prices) < period {
		return out
	}

	sum := 0.0
	for i, price := range prices {
		sum += price
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

package indicators

// EMAService computes exponential moving averages.
type EMAService struct{}

func NewEMAService() *EMAService {
	return &EMAService{}
}

// Calculate returns the EMA aligned to the input. The series is seeded with
// a simple average of the first full period of defined values, so the warm-up
// region is NoValue. Leading NoValue in the input (e.g. a MACD line fed back
// through an EMA) shifts the defined region right instead of corrupting it.
func (s *EMAService) Calculate(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = NoValue()
	}
	if period <= 0 || len(prices) == 0 {
		return out
	}

	start := 0
	for start < len(prices) && !HasValue(prices[start]) {
		start++
	}
	if len(prices)-start < period {
		return out
	}

	// Seed with SMA over the first defined period.
	sum := 0.0
	for i := start; i < start+period; i++ {
		sum += prices[i]
	}
	seedIdx := start + period - 1
	out[seedIdx] = sum / float64(period)

	multiplier := 2.0 / float64(period+1)
	for i := seedIdx + 1; i < len(prices); i++ {
		out[i] = (prices[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

package indicators

// RSIService computes Wilder's Relative Strength Index.
type RSIService struct{}

func NewRSIService() *RSIService {
	return &RSIService{}
}

// Calculate returns Wilder's RSI over period bars, aligned to the input.
// The first period points are NoValue. Average gain/loss are seeded with a
// simple mean over the first period of changes and then smoothed with
// Wilder's recurrence avg = (prev*(period-1) + current) / period.
func (s *RSIService) Calculate(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	for i := range out {
		out[i] = NoValue()
	}
	if period <= 0 || len(prices) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFrom(avgGain, avgLoss)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFrom(avgGain, avgLoss)
	}
	return out
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

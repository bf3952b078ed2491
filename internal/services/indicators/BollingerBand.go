package indicators

import "math"

type BBandsService struct{}

type BBandsResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
	Width  []float64 // bandwidth relative to the middle band
}

func NewBBandsService() *BBandsService {
	return &BBandsService{}
}

// Calculate returns Bollinger Bands from a rolling mean +/- deviations times
// the rolling standard deviation. The first period-1 points are NoValue.
func (s *BBandsService) Calculate(prices []float64, period int, deviations float64) *BBandsResult {
	n := len(prices)
	upper := make([]float64, n)
	middle := make([]float64, n)
	lower := make([]float64, n)
	width := make([]float64, n)
	for i := 0; i < n; i++ {
		upper[i] = NoValue()
		middle[i] = NoValue()
		lower[i] = NoValue()
		width[i] = NoValue()
	}

	if period <= 0 || n < period {
		return &BBandsResult{Upper: upper, Middle: middle, Lower: lower, Width: width}
	}

	for i := period - 1; i < n; i++ {
		window := prices[i-period+1 : i+1]

		sum := 0.0
		for _, price := range window {
			sum += price
		}
		sma := sum / float64(period)
		middle[i] = sma

		squareSum := 0.0
		for _, price := range window {
			diff := price - sma
			squareSum += diff * diff
		}
		stdDev := math.Sqrt(squareSum / float64(period))

		upper[i] = sma + deviations*stdDev
		lower[i] = sma - deviations*stdDev
		if sma != 0 {
			width[i] = (upper[i] - lower[i]) / sma
		}
	}

	return &BBandsResult{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
		Width:  width,
	}
}

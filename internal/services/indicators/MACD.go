package indicators

type MACDService struct {
	ema *EMAService
}

type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

func NewMACDService() *MACDService {
	return &MACDService{
		ema: NewEMAService(),
	}
}

// Calculate returns the MACD line, signal line and histogram, all aligned to
// the input. The MACD line is defined from index slow-1; the signal line and
// histogram from index slow+signal-2.
func (s *MACDService) Calculate(prices []float64, fastPeriod, slowPeriod, signalPeriod int) *MACDResult {
	n := len(prices)
	macdLine := make([]float64, n)
	histogram := make([]float64, n)
	for i := range macdLine {
		macdLine[i] = NoValue()
		histogram[i] = NoValue()
	}

	if fastPeriod <= 0 || slowPeriod <= fastPeriod || signalPeriod <= 0 {
		return &MACDResult{MACD: macdLine, Signal: append([]float64(nil), macdLine...), Histogram: histogram}
	}

	fastEMA := s.ema.Calculate(prices, fastPeriod)
	slowEMA := s.ema.Calculate(prices, slowPeriod)

	for i := 0; i < n; i++ {
		if HasValue(fastEMA[i]) && HasValue(slowEMA[i]) {
			macdLine[i] = fastEMA[i] - slowEMA[i]
		}
	}

	// The EMA skips the MACD line's warm-up region on its own.
	signalLine := s.ema.Calculate(macdLine, signalPeriod)

	for i := 0; i < n; i++ {
		if HasValue(macdLine[i]) && HasValue(signalLine[i]) {
			histogram[i] = macdLine[i] - signalLine[i]
		}
	}

	return &MACDResult{
		MACD:      macdLine,
		Signal:    signalLine,
		Histogram: histogram,
	}
}

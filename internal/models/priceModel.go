package models

import "time"

// PricePoint is one bar of a close-price series.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// ValidateSeries checks the invariants every price series handed to the
// pipeline must satisfy: non-empty and strictly ascending timestamps. Gaps
// are tolerated; out-of-order bars are not.
func ValidateSeries(prices []PricePoint) error {
	if len(prices) == 0 {
		return &InputError{Field: "price_series", Value: 0, Reason: "price series is empty"}
	}
	for i := 1; i < len(prices); i++ {
		if !prices[i-1].Time.Before(prices[i].Time) {
			return &InputError{
				Field:  "price_series",
				Value:  prices[i].Time.Format("2006-01-02"),
				Reason: "price series is not in ascending chronological order",
			}
		}
	}
	return nil
}

// Closes extracts the close prices as a plain slice for indicator math.
func Closes(prices []PricePoint) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = p.Close
	}
	return out
}

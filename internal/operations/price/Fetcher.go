package price

import (
	"context"
	"time"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

// Fetcher retrieves a close-price series for a symbol over an inclusive
// date range. Implementations must return points sorted ascending by time;
// the pipeline treats a violation as an InputError.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error)

func (f FetcherFunc) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	return f(ctx, symbol, start, end)
}

package price

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

// BinanceFetcher pulls daily close prices from the Binance klines API with
// rate limiting and retried, chunked range downloads.
type BinanceFetcher struct {
	client      *binance.Client
	rateLimiter *rate.Limiter
}

func NewBinanceFetcher(apiKey, secretKey string) *BinanceFetcher {
	return &BinanceFetcher{
		client: binance.NewClient(apiKey, secretKey),
		// 10 requests per second with burst of 20
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// Fetch downloads the daily close series for the symbol across [start, end],
// splitting the range into chunks that stay inside the klines page limit.
// The result is sorted ascending and de-duplicated on open time.
func (f *BinanceFetcher) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	pair := tradingPair(symbol)

	var points []models.PricePoint
	chunk := 400 * 24 * time.Hour // under the 500-kline page limit

	for currentStart := start; currentStart.Before(end); {
		currentEnd := currentStart.Add(chunk)
		if currentEnd.After(end) {
			currentEnd = end
		}

		klines, err := f.klinesWithRetry(ctx, pair, currentStart, currentEnd)
		if err != nil {
			return nil, fmt.Errorf("fetching %s klines: %w", pair, err)
		}

		for _, k := range klines {
			closePrice, err := strconv.ParseFloat(k.Close, 64)
			if err != nil {
				continue
			}
			points = append(points, models.PricePoint{
				Time:  time.UnixMilli(k.OpenTime).UTC(),
				Close: closePrice,
			})
		}
		currentStart = currentEnd
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	points = dedupe(points)

	if err := models.ValidateSeries(points); err != nil {
		return nil, err
	}
	return points, nil
}

func (f *BinanceFetcher) klinesWithRetry(ctx context.Context, pair string, start, end time.Time) ([]*binance.Kline, error) {
	maxRetries := 3
	backoff := 100 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}

		klines, err := f.client.NewKlinesService().
			Symbol(pair).
			Interval("1d").
			StartTime(start.UnixMilli()).
			EndTime(end.UnixMilli()).
			Limit(500).
			Do(ctx)
		if err == nil {
			return klines, nil
		}
		lastErr = err

		waitTime := time.Duration(math.Pow(2, float64(attempt))) * backoff
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waitTime):
		}
	}
	return nil, lastErr
}

// tradingPair maps a bare asset symbol onto its USDT spot pair; symbols that
// already name a quote asset pass through unchanged.
func tradingPair(symbol string) string {
	upper := strings.ToUpper(symbol)
	if strings.HasSuffix(upper, "USDT") || strings.HasSuffix(upper, "USDC") || strings.HasSuffix(upper, "BUSD") {
		return upper
	}
	return upper + "USDT"
}

func dedupe(points []models.PricePoint) []models.PricePoint {
	if len(points) < 2 {
		return points
	}
	out := points[:1]
	for _, p := range points[1:] {
		if p.Time.After(out[len(out)-1].Time) {
			out = append(out, p)
		}
	}
	return out
}

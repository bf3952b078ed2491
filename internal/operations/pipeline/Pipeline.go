package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sayyidkhan/vibewater-associates/internal/logger"
	"github.com/sayyidkhan/vibewater-associates/internal/models"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/backtest"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/price"
	"github.com/sayyidkhan/vibewater-associates/internal/services/indicators"
	"github.com/sayyidkhan/vibewater-associates/internal/services/ranking"
	"github.com/sayyidkhan/vibewater-associates/internal/services/rules"
	"github.com/sayyidkhan/vibewater-associates/internal/services/signals"
)

// Pipeline wires the schema-to-ranking flow: rule parsing, indicator
// computation, signal generation, portfolio simulation, metrics and ranking.
// It holds no per-run state; every invocation gets fresh accumulators, so a
// single Pipeline is safe for concurrent use.
type Pipeline struct {
	parser    *rules.Parser
	generator *signals.Generator
	simulator *backtest.Simulator
	metrics   *backtest.MetricsCalculator
	ranker    *ranking.Ranker
}

func New() *Pipeline {
	return &Pipeline{
		parser:    rules.NewParser(),
		generator: signals.NewGenerator(indicators.NewEngine()),
		simulator: backtest.NewSimulator(),
		metrics:   backtest.NewMetricsCalculator(),
		ranker:    ranking.NewRanker(),
	}
}

// BacktestResult is the complete outcome of one single-strategy run.
type BacktestResult struct {
	Metrics  models.BacktestMetrics
	Equity   []models.EquityPoint
	Trades   []models.Trade
	Warnings []string
}

// ParseRules exposes the rule parser standalone, for callers that need the
// parsed intent without running a simulation.
func (p *Pipeline) ParseRules(schema *models.StrategySchema) *rules.ParsedStrategy {
	return p.parser.Parse(schema)
}

// RunSingleBacktest executes the full pipeline for one strategy. Malformed
// rule text degrades to documented fallbacks collected in the result's
// Warnings; only unusable inputs (bad params, empty or unsorted price data)
// return an error, always an InputError.
func (p *Pipeline) RunSingleBacktest(
	ctx context.Context,
	schema *models.StrategySchema,
	params *models.BacktestParams,
	fetcher price.Fetcher,
	sink ProgressSink,
) (*BacktestResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	parsed := p.parser.Parse(schema)
	notify(sink, StageParsed)

	symbol := symbolForCategory(parsed.Category, params)
	prices, err := fetcher.Fetch(ctx, symbol, params.StartDate, params.EndDate)
	if err != nil {
		return nil, fmt.Errorf("fetching %s prices: %w", symbol, err)
	}
	if err := models.ValidateSeries(prices); err != nil {
		return nil, err
	}

	return p.runOnSeries(prices, parsed, params, sink)
}

// runOnSeries is the fetch-free tail of the pipeline, shared by single runs
// and batch research (which fetches once per distinct symbol up front).
func (p *Pipeline) runOnSeries(
	prices []models.PricePoint,
	parsed *rules.ParsedStrategy,
	params *models.BacktestParams,
	sink ProgressSink,
) (*BacktestResult, error) {
	closes := models.Closes(prices)
	entries, exits := p.generator.Generate(closes, parsed.Rule)
	notify(sink, StageSignalsGenerated)

	sim, err := p.simulator.Simulate(prices, entries, exits, params, parsed.StopLossPct, parsed.TakeProfitPct)
	if err != nil {
		return nil, err
	}
	notify(sink, StageSimulated)

	warnings := append([]string(nil), parsed.Warnings...)
	if len(sim.CompletedPairs()) == 0 {
		warnings = append(warnings, "strategy generated no completed trades over the test period")
	}

	metrics := p.metrics.Compute(sim, params)
	notify(sink, StageMetricsComputed)

	return &BacktestResult{
		Metrics:  metrics,
		Equity:   sim.Equity,
		Trades:   sim.Trades,
		Warnings: warnings,
	}, nil
}

// Candidate is one strategy entering batch research.
type Candidate struct {
	ID         string
	Name       string
	Schema     *models.StrategySchema
	Confidence float64
}

// RunBatchResearch backtests every candidate independently with at most
// maxConcurrent simulations in flight, then ranks the survivors. A failing
// candidate is dropped from the ranking without aborting the batch, and the
// context is checked before each simulation starts so a cancelled batch
// stops between candidates rather than mid-bar.
func (p *Pipeline) RunBatchResearch(
	ctx context.Context,
	candidates []Candidate,
	params *models.BacktestParams,
	fetcher price.Fetcher,
	maxConcurrent int,
) ([]models.StrategyPerformanceRanking, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	// Parse everything up front so the price series for each distinct
	// symbol is fetched exactly once, not per candidate or per indicator.
	parsedAll := make([]*rules.ParsedStrategy, len(candidates))
	symbols := make([]string, len(candidates))
	seriesCache := make(map[string][]models.PricePoint)
	for i, cand := range candidates {
		parsedAll[i] = p.parser.Parse(cand.Schema)
		symbols[i] = symbolForCategory(parsedAll[i].Category, params)
		seriesCache[symbols[i]] = nil
	}
	for symbol := range seriesCache {
		prices, err := fetcher.Fetch(ctx, symbol, params.StartDate, params.EndDate)
		if err != nil {
			logger.Warn().Str("symbol", symbol).Err(err).Msg("price fetch failed; dependent candidates excluded")
			delete(seriesCache, symbol)
			continue
		}
		if err := models.ValidateSeries(prices); err != nil {
			logger.Warn().Str("symbol", symbol).Err(err).Msg("invalid price series; dependent candidates excluded")
			delete(seriesCache, symbol)
			continue
		}
		seriesCache[symbol] = prices
	}

	type outcome struct {
		idx    int
		result *BacktestResult
	}

	results := make(chan outcome, len(candidates))
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for i := range candidates {
		// Cooperative cancellation between simulations; one already
		// running goes to completion.
		if ctx.Err() != nil {
			break
		}

		prices, ok := seriesCache[symbols[i]]
		if !ok {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, prices []models.PricePoint) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := p.runOnSeries(prices, parsedAll[idx], params, nil)
			if err != nil {
				logger.Warn().
					Str("strategy_id", candidates[idx].ID).
					Err(err).
					Msg("candidate backtest failed; excluded from ranking")
				return
			}
			results <- outcome{idx: idx, result: res}
		}(i, prices)
	}

	// Ranking only sees the complete batch; partial rankings would be
	// misleading.
	wg.Wait()
	close(results)

	var entries []ranking.Entry
	for oc := range results {
		cand := candidates[oc.idx]
		if len(oc.result.Warnings) > 0 {
			logger.Debug().
				Str("strategy_id", cand.ID).
				Str("warnings", strings.Join(oc.result.Warnings, "; ")).
				Msg("candidate completed with warnings")
		}
		entries = append(entries, ranking.Entry{
			StrategyID: cand.ID,
			Metrics:    oc.result.Metrics,
			Confidence: cand.Confidence,
		})
	}

	return p.ranker.Rank(entries), ctx.Err()
}

// symbolForCategory maps a schema category onto a tradable asset symbol,
// falling back to the params' primary symbol for unknown categories.
func symbolForCategory(category string, params *models.BacktestParams) string {
	switch strings.ToLower(category) {
	case "bitcoin":
		return "BTC"
	case "ethereum":
		return "ETH"
	case "solana":
		return "SOL"
	default:
		return params.Symbol()
	}
}

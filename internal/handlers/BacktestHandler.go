package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sayyidkhan/vibewater-associates/config"
	"github.com/sayyidkhan/vibewater-associates/internal/logger"
	"github.com/sayyidkhan/vibewater-associates/internal/models"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/pipeline"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/price"
	"github.com/sayyidkhan/vibewater-associates/internal/repositories"
)

// maxTradesInResponse caps the trade log returned over HTTP; the full log is
// persisted with the run.
const maxTradesInResponse = 10

type BacktestHandler struct {
	pipeline     *pipeline.Pipeline
	fetcher      price.Fetcher
	backtestRepo *repositories.BacktestRepository
	strategyRepo *repositories.StrategyRepository
	defaults     config.BacktestDefaults
}

func NewBacktestHandler(
	p *pipeline.Pipeline,
	fetcher price.Fetcher,
	backtestRepo *repositories.BacktestRepository,
	strategyRepo *repositories.StrategyRepository,
	defaults config.BacktestDefaults,
) *BacktestHandler {
	return &BacktestHandler{
		pipeline:     p,
		fetcher:      fetcher,
		backtestRepo: backtestRepo,
		strategyRepo: strategyRepo,
		defaults:     defaults,
	}
}

// backtestRequest is the wire form of a run request. Either an inline schema
// or a stored strategy_id must be present; dates are calendar days.
type backtestRequest struct {
	StrategyID     string                 `json:"strategy_id"`
	Schema         *models.StrategySchema `json:"schema"`
	Symbols        []string               `json:"symbols"`
	Timeframe      string                 `json:"timeframe"`
	StartDate      string                 `json:"start_date" binding:"required"`
	EndDate        string                 `json:"end_date" binding:"required"`
	InitialCapital float64                `json:"initial_capital"`
	Benchmark      string                 `json:"benchmark"`
	Fees           *float64               `json:"fees"`
	Slippage       *float64               `json:"slippage"`
	Exposure       *float64               `json:"exposure"`
}

// toParams converts the request into simulation parameters, filling omitted
// cost fields from the configured defaults.
func (req *backtestRequest) toParams(defaults config.BacktestDefaults) (*models.BacktestParams, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, &models.InputError{Field: "start_date", Value: req.StartDate, Reason: "expected YYYY-MM-DD"}
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, &models.InputError{Field: "end_date", Value: req.EndDate, Reason: "expected YYYY-MM-DD"}
	}

	params := &models.BacktestParams{
		Symbols:        req.Symbols,
		Timeframe:      req.Timeframe,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: req.InitialCapital,
		Benchmark:      req.Benchmark,
		Fees:           defaults.Fees,
		Slippage:       defaults.Slippage,
		PositionSizing: "fixed",
		Exposure:       1.0,
	}
	if params.InitialCapital == 0 {
		params.InitialCapital = 10000
	}
	if req.Fees != nil {
		params.Fees = *req.Fees
	}
	if req.Slippage != nil {
		params.Slippage = *req.Slippage
	}
	if req.Exposure != nil {
		params.Exposure = *req.Exposure
	}
	return params, nil
}

// resolveSchema returns the inline schema when present, otherwise loads the
// referenced stored strategy.
func (h *BacktestHandler) resolveSchema(req *backtestRequest) (*models.StrategySchema, error) {
	if req.Schema != nil {
		return req.Schema, nil
	}
	if req.StrategyID == "" {
		return nil, &models.InputError{Field: "schema", Value: nil,
			Reason: "either schema or strategy_id is required"}
	}
	strategy, err := h.strategyRepo.FindByID(req.StrategyID)
	if err != nil {
		return nil, err
	}
	if strategy == nil {
		return nil, &models.InputError{Field: "strategy_id", Value: req.StrategyID,
			Reason: "strategy not found"}
	}
	return strategy.Schema()
}

// Run executes a backtest and persists the outcome.
// POST /api/backtests
func (h *BacktestHandler) Run(c *gin.Context) {
	var req backtestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params, err := req.toParams(h.defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schema, err := h.resolveSchema(&req)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.pipeline.RunSingleBacktest(c.Request.Context(), schema, params, h.fetcher, nil)
	if err != nil {
		writeError(c, err)
		return
	}

	run, err := h.persistRun(req.StrategyID, params, result)
	if err != nil {
		// The run itself succeeded; report it even when persistence fails.
		logger.Error().Err(err).Msg("failed to persist backtest run")
	}

	resp := gin.H{
		"metrics":       result.Metrics,
		"equity_series": result.Equity,
		"trades":        recentTrades(result.Trades, maxTradesInResponse),
		"warnings":      result.Warnings,
	}
	if run != nil {
		resp["id"] = run.ID
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns a stored backtest run in full, including its complete trade log.
// GET /api/backtests/:id
func (h *BacktestHandler) Get(c *gin.Context) {
	run, err := h.backtestRepo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "backtest run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// List returns the most recent runs, optionally filtered by strategy.
// GET /api/backtests?strategy_id=...
func (h *BacktestHandler) List(c *gin.Context) {
	if strategyID := c.Query("strategy_id"); strategyID != "" {
		runs, err := h.backtestRepo.FindByStrategy(strategyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, runs)
		return
	}

	runs, err := h.backtestRepo.ListRecent(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (h *BacktestHandler) persistRun(
	strategyID string,
	params *models.BacktestParams,
	result *pipeline.BacktestResult,
) (*models.BacktestRun, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	metricsJSON, err := json.Marshal(result.Metrics)
	if err != nil {
		return nil, err
	}
	equityJSON, err := json.Marshal(result.Equity)
	if err != nil {
		return nil, err
	}
	tradesJSON, err := json.Marshal(result.Trades)
	if err != nil {
		return nil, err
	}
	warningsJSON, err := json.Marshal(result.Warnings)
	if err != nil {
		return nil, err
	}

	run := &models.BacktestRun{
		StrategyID: strategyID,
		Params:     paramsJSON,
		Metrics:    metricsJSON,
		Equity:     equityJSON,
		Trades:     tradesJSON,
		Warnings:   warningsJSON,
	}
	if err := h.backtestRepo.Create(run); err != nil {
		return nil, err
	}
	return run, nil
}

// recentTrades returns up to limit trades, most recent first.
func recentTrades(trades []models.Trade, limit int) []models.Trade {
	out := append([]models.Trade(nil), trades...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// writeError maps pipeline errors onto HTTP status codes: invalid input is
// the caller's fault, anything else is ours or upstream's.
func writeError(c *gin.Context, err error) {
	if models.IsInputError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

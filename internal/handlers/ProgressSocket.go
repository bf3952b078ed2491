package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sayyidkhan/vibewater-associates/config"
	"github.com/sayyidkhan/vibewater-associates/internal/logger"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/pipeline"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/price"
)

// ProgressSocket streams stage-completion events for a single backtest over a
// websocket. Each connection owns its run end to end; there is no shared
// connection registry, so a dropped socket affects nobody else.
type ProgressSocket struct {
	pipeline *pipeline.Pipeline
	fetcher  price.Fetcher
	defaults config.BacktestDefaults
	upgrader websocket.Upgrader
}

func NewProgressSocket(p *pipeline.Pipeline, fetcher price.Fetcher, defaults config.BacktestDefaults) *ProgressSocket {
	return &ProgressSocket{
		pipeline: p,
		fetcher:  fetcher,
		defaults: defaults,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				allowed := os.Getenv("WS_ALLOWED_ORIGINS")
				if allowed == "" || allowed == "*" {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, o := range strings.Split(allowed, ",") {
					if strings.TrimSpace(o) == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

type progressEvent struct {
	Type  string      `json:"type"`
	Stage string      `json:"stage,omitempty"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Serve upgrades the connection, reads one run request and streams progress
// followed by the final result.
// GET /ws/backtest
func (s *ProgressSocket) Serve(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req backtestRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(progressEvent{Type: "error", Error: "invalid request payload"})
		return
	}
	if req.Schema == nil {
		_ = conn.WriteJSON(progressEvent{Type: "error", Error: "schema is required"})
		return
	}
	params, err := req.toParams(s.defaults)
	if err != nil {
		_ = conn.WriteJSON(progressEvent{Type: "error", Error: err.Error()})
		return
	}

	// The sink buffers one event per pipeline stage; sends never block the
	// run and a full buffer just drops the event.
	stages := make(chan string, 8)
	sink := pipeline.ProgressFunc(func(stage string) {
		select {
		case stages <- stage:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for stage := range stages {
			if err := conn.WriteJSON(progressEvent{Type: "progress", Stage: stage}); err != nil {
				return
			}
		}
	}()

	result, runErr := s.pipeline.RunSingleBacktest(c.Request.Context(), req.Schema, params, s.fetcher, sink)
	close(stages)
	<-done

	if runErr != nil {
		_ = conn.WriteJSON(progressEvent{Type: "error", Error: runErr.Error()})
		return
	}
	_ = conn.WriteJSON(progressEvent{Type: "result", Data: gin.H{
		"metrics":       result.Metrics,
		"equity_series": result.Equity,
		"trades":        recentTrades(result.Trades, maxTradesInResponse),
		"warnings":      result.Warnings,
	}})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sayyidkhan/vibewater-associates/config"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/pipeline"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/price"
)

type ResearchHandler struct {
	pipeline *pipeline.Pipeline
	fetcher  price.Fetcher
	research config.ResearchConfig
	defaults config.BacktestDefaults
}

func NewResearchHandler(
	p *pipeline.Pipeline,
	fetcher price.Fetcher,
	research config.ResearchConfig,
	defaults config.BacktestDefaults,
) *ResearchHandler {
	return &ResearchHandler{pipeline: p, fetcher: fetcher, research: research, defaults: defaults}
}

type researchRequest struct {
	backtestRequest
	Families      []string `json:"families"`
	NumCandidates int      `json:"num_candidates"`
}

// Run generates candidate strategies, backtests the whole batch and returns
// the ranked survivors.
// POST /api/research
func (h *ResearchHandler) Run(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Families) == 0 {
		req.Families = []string{pipeline.FamilyMA, pipeline.FamilyRSI}
	}
	if req.NumCandidates <= 0 {
		req.NumCandidates = 8
	}

	params, err := req.toParams(h.defaults)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidates := pipeline.GenerateCandidates(req.Families, req.NumCandidates)
	if len(candidates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no candidates for requested families"})
		return
	}

	rankings, err := h.pipeline.RunBatchResearch(
		c.Request.Context(), candidates, params, h.fetcher, h.research.MaxConcurrent)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rankings":   rankings,
		"candidates": candidateSummaries(candidates),
	})
}

type candidateSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

func candidateSummaries(candidates []pipeline.Candidate) []candidateSummary {
	out := make([]candidateSummary, 0, len(candidates))
	for _, cand := range candidates {
		out = append(out, candidateSummary{ID: cand.ID, Name: cand.Name, Confidence: cand.Confidence})
	}
	return out
}

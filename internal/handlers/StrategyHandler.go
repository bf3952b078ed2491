package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
	"github.com/sayyidkhan/vibewater-associates/internal/operations/pipeline"
	"github.com/sayyidkhan/vibewater-associates/internal/repositories"
)

type StrategyHandler struct {
	strategyRepo *repositories.StrategyRepository
	pipeline     *pipeline.Pipeline
}

func NewStrategyHandler(strategyRepo *repositories.StrategyRepository, p *pipeline.Pipeline) *StrategyHandler {
	return &StrategyHandler{strategyRepo: strategyRepo, pipeline: p}
}

type strategyRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	UserID      string                 `json:"user_id"`
	Status      string                 `json:"status"`
	Schema      *models.StrategySchema `json:"schema" binding:"required"`
}

// Create stores a new strategy.
// POST /api/strategies
func (h *StrategyHandler) Create(c *gin.Context) {
	var req strategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schemaJSON, err := json.Marshal(req.Schema)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	strategy := &models.Strategy{
		UserID:      req.UserID,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		SchemaJSON:  schemaJSON,
	}
	if err := h.strategyRepo.Create(strategy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, strategy)
}

// Get returns one stored strategy.
// GET /api/strategies/:id
func (h *StrategyHandler) Get(c *gin.Context) {
	strategy, err := h.strategyRepo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if strategy == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "strategy not found"})
		return
	}
	c.JSON(http.StatusOK, strategy)
}

// List returns a user's strategies.
// GET /api/strategies?user_id=...
func (h *StrategyHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	strategies, err := h.strategyRepo.FindByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, strategies)
}

// Update replaces a stored strategy's mutable fields.
// PUT /api/strategies/:id
func (h *StrategyHandler) Update(c *gin.Context) {
	strategy, err := h.strategyRepo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if strategy == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "strategy not found"})
		return
	}

	var req strategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	schemaJSON, err := json.Marshal(req.Schema)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	strategy.Name = req.Name
	strategy.Description = req.Description
	strategy.SchemaJSON = schemaJSON
	if req.Status != "" {
		strategy.Status = req.Status
	}
	if err := h.strategyRepo.Update(strategy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, strategy)
}

// Delete removes a stored strategy.
// DELETE /api/strategies/:id
func (h *StrategyHandler) Delete(c *gin.Context) {
	strategy, err := h.strategyRepo.FindByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if strategy == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "strategy not found"})
		return
	}
	if err := h.strategyRepo.Delete(strategy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Parse dry-runs the rule parser against a schema so clients can preview
// what a backtest would actually evaluate.
// POST /api/strategies/parse
func (h *StrategyHandler) Parse(c *gin.Context) {
	var schema models.StrategySchema
	if err := c.ShouldBindJSON(&schema); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	parsed := h.pipeline.ParseRules(&schema)
	c.JSON(http.StatusOK, parsed)
}

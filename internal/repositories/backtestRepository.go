package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

type BacktestRepository struct {
	db *gorm.DB
}

// NewBacktestRepository creates a new instance of BacktestRepository
func NewBacktestRepository(db *gorm.DB) *BacktestRepository {
	return &BacktestRepository{db: db}
}

// Create adds a new BacktestRun record, assigning an id when absent.
func (r *BacktestRepository) Create(run *models.BacktestRun) error {
	if run == nil {
		return errors.New("backtest run cannot be nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	return r.db.Create(run).Error
}

// FindByID retrieves a BacktestRun record by its ID
func (r *BacktestRepository) FindByID(id string) (*models.BacktestRun, error) {
	if id == "" {
		return nil, errors.New("invalid id")
	}
	var run models.BacktestRun
	err := r.db.First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &run, err
}

// FindByStrategy retrieves all runs for a strategy, newest first.
func (r *BacktestRepository) FindByStrategy(strategyID string) ([]models.BacktestRun, error) {
	if strategyID == "" {
		return nil, errors.New("invalid strategy id")
	}
	var runs []models.BacktestRun
	err := r.db.Where("strategy_id = ?", strategyID).
		Order("created_at DESC").
		Find(&runs).Error
	return runs, err
}

// ListRecent retrieves the most recent runs across all strategies.
func (r *BacktestRepository) ListRecent(limit int) ([]models.BacktestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []models.BacktestRun
	err := r.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// Delete removes a BacktestRun record
func (r *BacktestRepository) Delete(run *models.BacktestRun) error {
	if run == nil {
		return errors.New("backtest run cannot be nil")
	}
	return r.db.Delete(run).Error
}

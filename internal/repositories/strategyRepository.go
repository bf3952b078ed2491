package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

type StrategyRepository struct {
	db *gorm.DB
}

// NewStrategyRepository creates a new instance of StrategyRepository
func NewStrategyRepository(db *gorm.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

// Create adds a new Strategy record, assigning an id when absent.
func (r *StrategyRepository) Create(strategy *models.Strategy) error {
	if strategy == nil {
		return errors.New("strategy cannot be nil")
	}
	if strategy.ID == "" {
		strategy.ID = uuid.NewString()
	}
	if strategy.Status == "" {
		strategy.Status = models.StrategyStatusBacktest
	}
	return r.db.Create(strategy).Error
}

// FindByID retrieves a Strategy record by its ID
func (r *StrategyRepository) FindByID(id string) (*models.Strategy, error) {
	if id == "" {
		return nil, errors.New("invalid id")
	}
	var strategy models.Strategy
	err := r.db.First(&strategy, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &strategy, err
}

// Update modifies an existing Strategy record
func (r *StrategyRepository) Update(strategy *models.Strategy) error {
	if strategy == nil {
		return errors.New("strategy cannot be nil")
	}
	return r.db.Save(strategy).Error
}

// Delete removes a Strategy record
func (r *StrategyRepository) Delete(strategy *models.Strategy) error {
	if strategy == nil {
		return errors.New("strategy cannot be nil")
	}
	return r.db.Delete(strategy).Error
}

// FindByUser retrieves all strategies owned by a user, newest first.
func (r *StrategyRepository) FindByUser(userID string) ([]models.Strategy, error) {
	if userID == "" {
		return nil, errors.New("invalid user id")
	}
	var strategies []models.Strategy
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&strategies).Error
	return strategies, err
}

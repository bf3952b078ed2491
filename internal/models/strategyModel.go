package models

import (
	"encoding/json"
	"time"
)

// StrategyNode is one step of a declarative strategy flow. Meta carries
// free-form key/value pairs whose interpretation depends on the node type
// (rules for entry conditions, stop_pct for stop losses, and so on).
type StrategyNode struct {
	ID   string                 `json:"id"`
	Type string                 `json:"type"`
	Meta map[string]interface{} `json:"meta"`
}

// Connection links two nodes in declaration order. Only sequential
// composition is evaluated; branching connections are stored but ignored.
type Connection struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// StrategySchema is the declarative description of a trading idea.
// Immutable once submitted for a backtest.
type StrategySchema struct {
	Nodes       []StrategyNode `json:"nodes"`
	Connections []Connection   `json:"connections"`
}

const (
	NodeTypeStart          = "start"
	NodeTypeEnd            = "end"
	NodeTypeCategory       = "category"
	NodeTypeEntryCondition = "entry_condition"
	NodeTypeTakeProfit     = "take_profit"
	NodeTypeStopLoss       = "stop_loss"
	NodeTypeIndicator      = "indicator"
)

// FirstNodeOfType returns the first node with the given type in declaration
// order, or nil. Duplicate nodes of the singleton types (entry_condition,
// take_profit, stop_loss) are ignored beyond the first.
func (s *StrategySchema) FirstNodeOfType(nodeType string) *StrategyNode {
	for i := range s.Nodes {
		if s.Nodes[i].Type == nodeType {
			return &s.Nodes[i]
		}
	}
	return nil
}

// Strategy is the persisted form of a schema.
type Strategy struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	UserID      string          `gorm:"index" json:"user_id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Status      string          `gorm:"not null" json:"status"`
	SchemaJSON  json.RawMessage `gorm:"type:jsonb" json:"schema_json"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

const (
	StrategyStatusLive     = "Live"
	StrategyStatusPaper    = "Paper"
	StrategyStatusBacktest = "Backtest"
)

func (Strategy) TableName() string {
	return "strategies"
}

// Schema decodes the stored schema JSON.
func (s *Strategy) Schema() (*StrategySchema, error) {
	var schema StrategySchema
	if err := json.Unmarshal(s.SchemaJSON, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

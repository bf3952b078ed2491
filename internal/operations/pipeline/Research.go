package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

// Families of auto-generated research candidates.
const (
	FamilyMA  = "ma"
	FamilyRSI = "rsi"
)

var maGrid = [][2]int{{5, 20}, {10, 30}, {20, 50}, {20, 100}, {50, 200}}

var rsiGrid = [][3]int{{14, 30, 70}, {10, 25, 75}, {21, 35, 65}}

// GenerateCandidates builds up to numCandidates schemas from the requested
// families, walking the MA crossover grid first and then the RSI grid.
// Every candidate gets a fresh id and a neutral confidence.
func GenerateCandidates(families []string, numCandidates int) []Candidate {
	var out []Candidate

	has := func(family string) bool {
		for _, f := range families {
			if f == family {
				return true
			}
		}
		return false
	}

	if has(FamilyMA) {
		for _, pair := range maGrid {
			if len(out) >= numCandidates {
				break
			}
			fast, slow := pair[0], pair[1]
			out = append(out, Candidate{
				ID:         uuid.NewString(),
				Name:       fmt.Sprintf("MA Crossover %d/%d", fast, slow),
				Schema:     BuildMACrossSchema(fast, slow),
				Confidence: 0.5,
			})
		}
	}

	if has(FamilyRSI) {
		for _, grid := range rsiGrid {
			if len(out) >= numCandidates {
				break
			}
			period, buy, sell := grid[0], grid[1], grid[2]
			out = append(out, Candidate{
				ID:         uuid.NewString(),
				Name:       fmt.Sprintf("RSI %d < %d > %d", period, buy, sell),
				Schema:     BuildRSISchema(period, buy, sell),
				Confidence: 0.5,
			})
		}
	}

	return out
}

// BuildMACrossSchema produces the declarative schema for a fast/slow moving
// average crossover with the standard 7% target and 5% stop.
func BuildMACrossSchema(fast, slow int) *models.StrategySchema {
	return linearSchema(
		models.StrategyNode{ID: "entry", Type: models.NodeTypeEntryCondition, Meta: map[string]interface{}{
			"mode":  "manual",
			"rules": []string{fmt.Sprintf("Enter when %d-day MA crosses above %d-day moving average", fast, slow)},
		}},
	)
}

// BuildRSISchema produces the schema for an RSI mean-reversion rule.
func BuildRSISchema(period, buyLevel, sellLevel int) *models.StrategySchema {
	return linearSchema(
		models.StrategyNode{ID: "entry", Type: models.NodeTypeEntryCondition, Meta: map[string]interface{}{
			"mode":  "manual",
			"rules": []string{fmt.Sprintf("Enter when RSI %d crosses below %d and exit above %d", period, buyLevel, sellLevel)},
		}},
	)
}

func linearSchema(entry models.StrategyNode) *models.StrategySchema {
	nodes := []models.StrategyNode{
		{ID: "start", Type: models.NodeTypeStart, Meta: map[string]interface{}{}},
		{ID: "category", Type: models.NodeTypeCategory, Meta: map[string]interface{}{"category": "Bitcoin"}},
		entry,
		{ID: "profit_target", Type: models.NodeTypeTakeProfit, Meta: map[string]interface{}{"target_pct": 7.0}},
		{ID: "stop_loss", Type: models.NodeTypeStopLoss, Meta: map[string]interface{}{"stop_pct": 5.0}},
		{ID: "end", Type: models.NodeTypeEnd, Meta: map[string]interface{}{}},
	}

	connections := make([]models.Connection, 0, len(nodes)-1)
	for i := 0; i < len(nodes)-1; i++ {
		connections = append(connections, models.Connection{
			ID:     fmt.Sprintf("c%d", i+1),
			Source: nodes[i].ID,
			Target: nodes[i+1].ID,
		})
	}

	return &models.StrategySchema{Nodes: nodes, Connections: connections}
}

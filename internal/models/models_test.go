package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestValidateSeriesEmpty(t *testing.T) {
	err := ValidateSeries(nil)
	if err == nil {
		t.Fatal("empty series must be rejected")
	}
	var ie *InputError
	if !errors.As(err, &ie) {
		t.Fatalf("expected an InputError, got %T", err)
	}
	if ie.Field != "price_series" {
		t.Errorf("unexpected field %q", ie.Field)
	}
}

func TestValidateSeriesOutOfOrder(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := []PricePoint{
		{Time: base, Close: 100},
		{Time: base.AddDate(0, 0, 2), Close: 101},
		{Time: base.AddDate(0, 0, 1), Close: 102},
	}
	if err := ValidateSeries(prices); err == nil {
		t.Fatal("out-of-order series must be rejected")
	}
	// Duplicates are out of order too: ascending means strictly ascending.
	dup := []PricePoint{{Time: base, Close: 100}, {Time: base, Close: 100}}
	if err := ValidateSeries(dup); err == nil {
		t.Fatal("duplicate timestamps must be rejected")
	}
}

func TestValidateSeriesGapsTolerated(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	prices := []PricePoint{
		{Time: base, Close: 100},
		{Time: base.AddDate(0, 0, 10), Close: 101},
	}
	if err := ValidateSeries(prices); err != nil {
		t.Fatalf("gaps are allowed: %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	base := BacktestParams{
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		InitialCapital: 10000,
		Exposure:       1.0,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*BacktestParams)
	}{
		{"start after end", func(p *BacktestParams) { p.StartDate, p.EndDate = p.EndDate, p.StartDate }},
		{"start equals end", func(p *BacktestParams) { p.EndDate = p.StartDate }},
		{"zero capital", func(p *BacktestParams) { p.InitialCapital = 0 }},
		{"negative fees", func(p *BacktestParams) { p.Fees = -0.01 }},
		{"negative slippage", func(p *BacktestParams) { p.Slippage = -0.01 }},
		{"zero exposure", func(p *BacktestParams) { p.Exposure = 0 }},
		{"over exposure", func(p *BacktestParams) { p.Exposure = 1.5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mutate(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected rejection")
			}
			if !IsInputError(err) {
				t.Errorf("expected InputError, got %T", err)
			}
		})
	}
}

func TestParamsSymbolDefault(t *testing.T) {
	p := BacktestParams{}
	if p.Symbol() != "BTC" {
		t.Errorf("expected BTC default, got %s", p.Symbol())
	}
	p.Symbols = []string{"ETH", "SOL"}
	if p.Symbol() != "ETH" {
		t.Errorf("expected first symbol, got %s", p.Symbol())
	}
}

func TestIsInputErrorWrapped(t *testing.T) {
	inner := &InputError{Field: "x", Reason: "bad"}
	wrapped := fmt.Errorf("running backtest: %w", inner)
	if !IsInputError(wrapped) {
		t.Error("wrapped InputError must still be recognized")
	}
	if IsInputError(errors.New("other")) {
		t.Error("unrelated errors must not match")
	}
}

func TestStrategySchemaRoundTrip(t *testing.T) {
	schema := &StrategySchema{
		Nodes: []StrategyNode{
			{ID: "cat", Type: NodeTypeCategory, Meta: map[string]interface{}{"category": "Ethereum"}},
			{ID: "entry", Type: NodeTypeEntryCondition, Meta: map[string]interface{}{"rules": []interface{}{"RSI below 30"}}},
		},
		Connections: []Connection{{ID: "c1", Source: "cat", Target: "entry"}},
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s := Strategy{SchemaJSON: raw}
	decoded, err := s.Schema()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Nodes) != 2 || decoded.Nodes[0].Meta["category"] != "Ethereum" {
		t.Errorf("round trip lost data: %+v", decoded)
	}

	node := decoded.FirstNodeOfType(NodeTypeEntryCondition)
	if node == nil || node.ID != "entry" {
		t.Errorf("FirstNodeOfType failed: %+v", node)
	}
	if decoded.FirstNodeOfType(NodeTypeStopLoss) != nil {
		t.Error("absent node type must return nil")
	}
}

func TestStrategySchemaDecodeError(t *testing.T) {
	s := Strategy{SchemaJSON: json.RawMessage(`{not json`)}
	if _, err := s.Schema(); err == nil {
		t.Fatal("invalid schema JSON must error")
	}
}

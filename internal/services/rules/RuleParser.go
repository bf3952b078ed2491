package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sayyidkhan/vibewater-associates/internal/models"
)

// Parser turns a strategy schema's free-form rule text into typed indicator
// specs and a signal rule. Parsing never fails: unrecognized or malformed
// input degrades to documented defaults and a warning.
type Parser struct {
	maPattern        *regexp.Regexp
	rsiPeriodPattern *regexp.Regexp
	belowPattern     *regexp.Regexp
	abovePattern     *regexp.Regexp
}

func NewParser() *Parser {
	return &Parser{
		// "<N>-day moving average", "<N> day MA"
		maPattern:        regexp.MustCompile(`(\d+)[-\s]?day\s+(?:moving\s+average|ma\b)`),
		rsiPeriodPattern: regexp.MustCompile(`rsi[\s(]*(\d+)`),
		belowPattern:     regexp.MustCompile(`below\s+(\d+(?:\.\d+)?)`),
		abovePattern:     regexp.MustCompile(`above\s+(\d+(?:\.\d+)?)`),
	}
}

// Parse derives the category, indicator specs, signal rule and risk
// percentages from a schema. It is deterministic and idempotent; the same
// schema always yields the same output.
func (p *Parser) Parse(schema *models.StrategySchema) *ParsedStrategy {
	out := &ParsedStrategy{Category: DefaultCategory}

	if schema == nil || len(schema.Nodes) == 0 {
		out.Rule = SignalRule{Kind: RulePriceMove}
		out.Warnings = append(out.Warnings, "schema has no nodes; using price-move fallback rule")
		return out
	}

	if node := schema.FirstNodeOfType(models.NodeTypeCategory); node != nil {
		if cat, ok := metaString(node.Meta, "category"); ok && cat != "" {
			out.Category = cat
		} else {
			out.Warnings = append(out.Warnings, "category node missing category meta; defaulting to "+DefaultCategory)
		}
	}

	ruleTexts := p.entryRules(schema)
	for _, text := range ruleTexts {
		out.Specs = append(out.Specs, p.parseIndicators(text)...)
	}

	out.Rule = p.deriveRule(ruleTexts, out.Specs, &out.Warnings)

	out.StopLossPct = p.riskPct(schema, models.NodeTypeStopLoss, "stop_pct", &out.Warnings)
	out.TakeProfitPct = p.riskPct(schema, models.NodeTypeTakeProfit, "target_pct", &out.Warnings)

	return out
}

// entryRules collects the rule strings of the first entry_condition node.
func (p *Parser) entryRules(schema *models.StrategySchema) []string {
	node := schema.FirstNodeOfType(models.NodeTypeEntryCondition)
	if node == nil {
		return nil
	}
	raw, ok := node.Meta["rules"]
	if !ok {
		return nil
	}
	var texts []string
	switch v := raw.(type) {
	case []string:
		texts = v
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				texts = append(texts, s)
			}
		}
	case string:
		texts = []string{v}
	}
	return texts
}

// parseIndicators extracts every indicator reference from one rule string,
// in order of appearance.
func (p *Parser) parseIndicators(text string) []IndicatorSpec {
	lower := strings.ToLower(text)

	type positioned struct {
		pos  int
		spec IndicatorSpec
	}
	var found []positioned

	for _, m := range p.maPattern.FindAllStringSubmatchIndex(lower, -1) {
		period, err := strconv.Atoi(lower[m[2]:m[3]])
		if err != nil || period <= 0 {
			continue
		}
		found = append(found, positioned{pos: m[0], spec: IndicatorSpec{Kind: IndicatorMA, Period: period}})
	}

	if idx := strings.Index(lower, "rsi"); idx >= 0 {
		period := DefaultRSIPeriod
		if m := p.rsiPeriodPattern.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				period = n
			}
		}
		found = append(found, positioned{pos: idx, spec: IndicatorSpec{Kind: IndicatorRSI, Period: period}})
	}

	if idx := strings.Index(lower, "macd"); idx >= 0 {
		found = append(found, positioned{pos: idx, spec: IndicatorSpec{Kind: IndicatorMACD, Fast: 12, Slow: 26, Signal: 9}})
	}

	if idx := strings.Index(lower, "bollinger"); idx >= 0 {
		found = append(found, positioned{pos: idx, spec: IndicatorSpec{Kind: IndicatorBBands, Period: 20, StdMult: 2.0}})
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	specs := make([]IndicatorSpec, 0, len(found))
	for _, f := range found {
		specs = append(specs, f.spec)
	}
	return specs
}

// deriveRule picks the signal rule from the parsed specs. Precedence: an MA
// pair beats RSI; RSI beats everything else. Unparseable text falls back to
// the default 10/30 crossover, and a schema with no rule text at all falls
// back to the price-move heuristic. Both fallbacks are intentional and
// reported as warnings, never silent.
func (p *Parser) deriveRule(ruleTexts []string, specs []IndicatorSpec, warnings *[]string) SignalRule {
	var mas []IndicatorSpec
	var rsi *IndicatorSpec
	for i := range specs {
		switch specs[i].Kind {
		case IndicatorMA:
			mas = append(mas, specs[i])
		case IndicatorRSI:
			if rsi == nil {
				rsi = &specs[i]
			}
		}
	}

	if len(mas) >= 2 {
		fast, slow := mas[0].Period, mas[0].Period
		for _, m := range mas[1:] {
			if m.Period < fast {
				fast = m.Period
			}
			if m.Period > slow {
				slow = m.Period
			}
		}
		return SignalRule{Kind: RuleMACross, FastPeriod: fast, SlowPeriod: slow}
	}

	if rsi != nil {
		rule := SignalRule{
			Kind:       RuleRSIThreshold,
			RSIPeriod:  rsi.Period,
			Oversold:   DefaultOversold,
			Overbought: DefaultOverbought,
		}
		// Thresholds may be embedded in the text, e.g. "RSI below 25".
		joined := strings.ToLower(strings.Join(ruleTexts, " "))
		if m := p.belowPattern.FindStringSubmatch(joined); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				rule.Oversold = v
			}
		}
		if m := p.abovePattern.FindStringSubmatch(joined); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				rule.Overbought = v
			}
		}
		return rule
	}

	if len(mas) == 1 {
		// A lone MA cannot form a crossover pair.
		*warnings = append(*warnings, fmt.Sprintf(
			"single %d-period MA cannot form a crossover; defaulting to %d/%d MA crossover",
			mas[0].Period, DefaultFastPeriod, DefaultSlowPeriod))
		return SignalRule{Kind: RuleMACross, FastPeriod: DefaultFastPeriod, SlowPeriod: DefaultSlowPeriod}
	}

	if len(specs) > 0 {
		// MACD/Bollinger references carry no entry semantics of their own.
		*warnings = append(*warnings, "no actionable entry rule in text; using price-move fallback rule")
		return SignalRule{Kind: RulePriceMove}
	}

	if len(ruleTexts) == 0 {
		*warnings = append(*warnings, "entry condition has no rules; using price-move fallback rule")
		return SignalRule{Kind: RulePriceMove}
	}

	*warnings = append(*warnings, fmt.Sprintf(
		"no recognizable pattern in %d rule(s); defaulting to %d/%d MA crossover",
		len(ruleTexts), DefaultFastPeriod, DefaultSlowPeriod))
	return SignalRule{Kind: RuleMACross, FastPeriod: DefaultFastPeriod, SlowPeriod: DefaultSlowPeriod}
}

// riskPct reads a percentage from the first node of the given type. A
// missing node means no trigger; a present node with bad meta degrades to
// no trigger plus a warning.
func (p *Parser) riskPct(schema *models.StrategySchema, nodeType, key string, warnings *[]string) *float64 {
	node := schema.FirstNodeOfType(nodeType)
	if node == nil {
		return nil
	}
	v, ok := metaFloat(node.Meta, key)
	if !ok {
		*warnings = append(*warnings, fmt.Sprintf("%s node missing %s; trigger disabled", nodeType, key))
		return nil
	}
	return &v
}

func metaString(meta map[string]interface{}, key string) (string, bool) {
	if meta == nil {
		return "", false
	}
	v, ok := meta[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func metaFloat(meta map[string]interface{}, key string) (float64, bool) {
	if meta == nil {
		return 0, false
	}
	switch v := meta[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

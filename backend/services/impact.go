package services

import (
	"math"

	"crowdconscious/backend/models"
)

// Calibration constants for the impact calculus. These are estimates agreed
// with the sustainability team; recalibrate here, not in the rules below.
const (
	// Flat CO2 estimate per air-quality-roi use. Not derived from the tool's
	// inputs; the tool does not capture enough data for a per-site figure.
	CO2PerAirQualityUseKg = 500.0
	// Annual absorption of a mature tree, used for the trees-equivalent figure.
	KgCO2PerTreePerYear = 21.0
	// Fraction of the measured water footprint assumed reducible.
	WaterReducibleFraction = 0.2
	// Fraction of the measured waste stream assumed reducible.
	WasteReducibleFraction = 0.3
)

// ToolTypeCalculator is the declared type shared by all savings calculators.
const ToolTypeCalculator = "calculator"

// A contribution inspects one tool result and accumulates metric deltas.
type contribution func(tool models.ToolResult, m *models.ImpactMetrics)

// nameRules keys contributions by tool name. Adding a new tool's impact rule
// is a table addition, not an aggregation-code change.
var nameRules = map[string]contribution{
	"air-quality-roi": func(tool models.ToolResult, m *models.ImpactMetrics) {
		if v, ok := numberField(tool.Data, "annualSavings"); ok {
			m.CostSavingsMXN += v
			m.CO2ReducedKg += CO2PerAirQualityUseKg
		}
	},
	"water-footprint-calculator": func(tool models.ToolResult, m *models.ImpactMetrics) {
		if v, ok := numberField(tool.Data, "totalWater"); ok {
			m.WaterSavedLiters += v * WaterReducibleFraction
		}
	},
	"waste-stream-analyzer": func(tool models.ToolResult, m *models.ImpactMetrics) {
		if v, ok := numberField(tool.Data, "totalWaste"); ok {
			m.WasteReducedKg += v * WasteReducibleFraction
		}
	},
}

// typeRules keys contributions by declared tool type and fire in addition to
// any name rule. A tool named air-quality-roi that also declares type
// "calculator" therefore contributes its annualSavings twice; that overlap is
// intentional configuration, kept explicit here and pinned by tests.
var typeRules = map[string]contribution{
	ToolTypeCalculator: func(tool models.ToolResult, m *models.ImpactMetrics) {
		if v, ok := numberField(tool.Data, "annualSavings"); ok {
			m.CostSavingsMXN += v
		}
	},
}

// CalculateImpactMetrics folds a list of tool results into one ImpactMetrics.
// Pure; metric values keep fractional precision, only trees-equivalent is
// rounded.
func CalculateImpactMetrics(tools []models.ToolResult) models.ImpactMetrics {
	var m models.ImpactMetrics
	for _, tool := range tools {
		if rule, ok := nameRules[tool.ToolName]; ok {
			rule(tool, &m)
		}
		if rule, ok := typeRules[tool.ToolType]; ok {
			rule(tool, &m)
		}
	}
	m.TreesEquivalent = int(math.Round(m.CO2ReducedKg / KgCO2PerTreePerYear))
	return m
}

// CalculateAggregateImpact computes per-user impact first and sums the
// partials, attributing every tool result to its owning user. Final sums are
// rounded to integers in one place so rounding error never compounds across
// many small contributions.
func CalculateAggregateImpact(tools []models.ToolResult) models.AggregateImpact {
	byUser := make(map[uint][]models.ToolResult)
	for _, tool := range tools {
		byUser[tool.UserID] = append(byUser[tool.UserID], tool)
	}

	var co2, water, waste, cost float64
	for _, userTools := range byUser {
		m := CalculateImpactMetrics(userTools)
		co2 += m.CO2ReducedKg
		water += m.WaterSavedLiters
		waste += m.WasteReducedKg
		cost += m.CostSavingsMXN
	}

	return models.AggregateImpact{
		CO2ReducedKg:       int(math.Round(co2)),
		WaterSavedLiters:   int(math.Round(water)),
		WasteReducedKg:     int(math.Round(waste)),
		CostSavingsMXN:     int(math.Round(cost)),
		TreesEquivalent:    int(math.Round(co2 / KgCO2PerTreePerYear)),
		ParticipatingUsers: len(byUser),
	}
}

// numberField reads a numeric field out of a tool payload. JSON numbers
// arrive as float64; ints show up when payloads are built in-process.
func numberField(data map[string]interface{}, key string) (float64, bool) {
	switch v := data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

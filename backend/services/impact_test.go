package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crowdconscious/backend/models"
)

func toolResult(user uint, name, toolType string, data map[string]interface{}) models.ToolResult {
	return models.ToolResult{UserID: user, ToolName: name, ToolType: toolType, Data: data}
}

func TestAirQualityROIContribution(t *testing.T) {
	tools := []models.ToolResult{
		toolResult(1, "air-quality-roi", "roi", map[string]interface{}{"annualSavings": 1000.0}),
	}

	m := CalculateImpactMetrics(tools)

	assert.Equal(t, 1000.0, m.CostSavingsMXN)
	assert.Equal(t, 500.0, m.CO2ReducedKg)
	assert.Equal(t, 24, m.TreesEquivalent) // round(500/21)
}

func TestWaterFootprintContribution(t *testing.T) {
	tools := []models.ToolResult{
		toolResult(1, "water-footprint-calculator", "calculator", map[string]interface{}{"totalWater": 1000.0}),
	}

	m := CalculateImpactMetrics(tools)

	assert.Equal(t, 200.0, m.WaterSavedLiters)
	assert.Equal(t, 0.0, m.CostSavingsMXN) // no annualSavings field, type rule stays quiet
}

func TestWasteStreamContribution(t *testing.T) {
	tools := []models.ToolResult{
		toolResult(1, "waste-stream-analyzer", "analyzer", map[string]interface{}{"totalWaste": 100.0}),
	}

	m := CalculateImpactMetrics(tools)

	assert.InDelta(t, 30.0, m.WasteReducedKg, 1e-9)
}

// A tool named air-quality-roi that also declares type calculator hits both
// the name rule and the type rule, so its annualSavings counts twice. That is
// deliberate configuration; this test pins it.
func TestAirQualityCalculatorOverlap(t *testing.T) {
	tools := []models.ToolResult{
		toolResult(1, "air-quality-roi", ToolTypeCalculator, map[string]interface{}{"annualSavings": 1000.0}),
	}

	m := CalculateImpactMetrics(tools)

	assert.Equal(t, 2000.0, m.CostSavingsMXN)
	assert.Equal(t, 500.0, m.CO2ReducedKg)
}

func TestUnknownToolContributesNothing(t *testing.T) {
	tools := []models.ToolResult{
		toolResult(1, "commute-checklist", "checklist", map[string]interface{}{"items": 4.0}),
	}

	m := CalculateImpactMetrics(tools)

	assert.Zero(t, m.CO2ReducedKg)
	assert.Zero(t, m.WaterSavedLiters)
	assert.Zero(t, m.WasteReducedKg)
	assert.Zero(t, m.CostSavingsMXN)
	assert.Zero(t, m.TreesEquivalent)
}

func TestMissingNumericFieldIsIgnored(t *testing.T) {
	tools := []models.ToolResult{
		toolResult(1, "air-quality-roi", "roi", map[string]interface{}{"annualSavings": "a lot"}),
		toolResult(1, "water-footprint-calculator", "calculator", nil),
	}

	m := CalculateImpactMetrics(tools)

	assert.Zero(t, m.CostSavingsMXN)
	assert.Zero(t, m.CO2ReducedKg)
	assert.Zero(t, m.WaterSavedLiters)
}

func TestPerScopeMetricsKeepFractions(t *testing.T) {
	tools := []models.ToolResult{
		toolResult(1, "waste-stream-analyzer", "analyzer", map[string]interface{}{"totalWaste": 101.0}),
	}

	m := CalculateImpactMetrics(tools)

	assert.InDelta(t, 30.3, m.WasteReducedKg, 1e-9)
}

func TestAggregateImpactRoundsAndCountsUsers(t *testing.T) {
	tools := []models.ToolResult{
		toolResult(1, "waste-stream-analyzer", "analyzer", map[string]interface{}{"totalWaste": 101.0}),
		toolResult(2, "waste-stream-analyzer", "analyzer", map[string]interface{}{"totalWaste": 101.0}),
		toolResult(2, "water-footprint-calculator", "calculator", map[string]interface{}{"totalWater": 501.0}),
	}

	agg := CalculateAggregateImpact(tools)

	assert.Equal(t, 2, agg.ParticipatingUsers)
	assert.Equal(t, 61, agg.WasteReducedKg)   // round(30.3 + 30.3)
	assert.Equal(t, 100, agg.WaterSavedLiters) // round(100.2)
	assert.Equal(t, 0, agg.CO2ReducedKg)
	assert.Equal(t, 0, agg.TreesEquivalent)
}

func TestAggregateImpactEmptyInput(t *testing.T) {
	agg := CalculateAggregateImpact(nil)

	assert.Zero(t, agg.ParticipatingUsers)
	assert.Zero(t, agg.CO2ReducedKg)
	assert.Zero(t, agg.CostSavingsMXN)
}

func TestMetricsNonNegativeAcrossMixedInput(t *testing.T) {
	tools := []models.ToolResult{
		toolResult(1, "air-quality-roi", ToolTypeCalculator, map[string]interface{}{"annualSavings": 1250.5}),
		toolResult(2, "water-footprint-calculator", ToolTypeCalculator, map[string]interface{}{"totalWater": 333.0}),
		toolResult(3, "waste-stream-analyzer", "analyzer", map[string]interface{}{"totalWaste": 7.0}),
	}

	m := CalculateImpactMetrics(tools)
	assert.GreaterOrEqual(t, m.CO2ReducedKg, 0.0)
	assert.GreaterOrEqual(t, m.WaterSavedLiters, 0.0)
	assert.GreaterOrEqual(t, m.WasteReducedKg, 0.0)
	assert.GreaterOrEqual(t, m.CostSavingsMXN, 0.0)
	assert.GreaterOrEqual(t, m.TreesEquivalent, 0)

	agg := CalculateAggregateImpact(tools)
	assert.GreaterOrEqual(t, agg.CO2ReducedKg, 0)
	assert.GreaterOrEqual(t, agg.TreesEquivalent, 0)
	assert.Equal(t, 3, agg.ParticipatingUsers)
}

package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"crowdconscious/backend/models"
)

func sampleIndividualReport() *models.IndividualReport {
	return &models.IndividualReport{
		ReportType:   models.ReportTypeIndividual,
		GeneratedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UserID:       1,
		EnrollmentID: 10,
		Module:       models.ModuleSummary{Title: "Clean Air Basics", CoreValue: "clean_air"},
		Progress:     models.ProgressSummary{Status: models.StatusInProgress, ProgressPct: 60},
		Tools: models.ToolsSection{
			Count: 1,
			Results: []models.ToolResult{{
				ToolName: "air-quality-roi",
				ToolType: "roi",
				SavedAt:  time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
			}},
		},
		Impact: models.ImpactMetrics{CO2ReducedKg: 500, CostSavingsMXN: 1000, TreesEquivalent: 24},
	}
}

func TestExcelIndividualReport(t *testing.T) {
	data, err := Excel(sampleIndividualReport())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Field", v)

	v, err = f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Value", v)

	// Module title sits on row 6 of the individual layout.
	v, err = f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "Clean Air Basics", v)

	// Tool results present, so the Tools Used sheet exists.
	idx, err := f.GetSheetIndex("Tools Used")
	require.NoError(t, err)
	require.NotEqual(t, -1, idx)

	v, err = f.GetCellValue("Tools Used", "A2")
	require.NoError(t, err)
	assert.Equal(t, "air-quality-roi", v)
}

func TestExcelOmitsToolsSheetWithoutResults(t *testing.T) {
	report := sampleIndividualReport()
	report.Tools = models.ToolsSection{}

	data, err := Excel(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	idx, err := f.GetSheetIndex("Tools Used")
	require.NoError(t, err)
	assert.Equal(t, -1, idx)
}

func TestExcelModuleReportSummary(t *testing.T) {
	report := &models.ModuleReport{
		ReportType:  models.ReportTypeModule,
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Module:      models.ModuleSummary{Title: "Zero Waste at Work", CoreValue: "zero_waste"},
		Participation: models.ModuleParticipation{
			TotalEnrollments: 2,
			Completed:        1,
			InProgress:       1,
			CompletionRate:   "50.0",
		},
		Impact: models.AggregateImpact{CostSavingsMXN: 1000, ParticipatingUsers: 1},
	}

	data, err := Excel(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// Completion rate sits on row 9 of the module layout.
	v, err := f.GetCellValue("Summary", "B9")
	require.NoError(t, err)
	assert.Equal(t, "50.0", v)
}

func TestExcelCorporateReportSummary(t *testing.T) {
	report := &models.CorporateReport{
		ReportType:  models.ReportTypeCorporate,
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Company:     models.CompanySummary{Name: "Verde SA", Industry: "Manufacturing", EmployeeCount: 40},
		Participation: models.CorporateParticipation{
			TotalEmployees:    2,
			EnrolledUsers:     1,
			ParticipationRate: 50,
		},
	}

	data, err := Excel(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Verde SA", v)
}

func TestExcelRejectsUnknownShape(t *testing.T) {
	_, err := Excel("not a report")
	assert.Error(t, err)
}

package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdconscious/backend/models"
)

func TestPDFIndividualReport(t *testing.T) {
	data, err := PDF(sampleIndividualReport())
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFCorporateReport(t *testing.T) {
	report := &models.CorporateReport{
		ReportType:  models.ReportTypeCorporate,
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Company:     models.CompanySummary{Name: "Verde SA", Industry: "Manufacturing", EmployeeCount: 40},
		Participation: models.CorporateParticipation{
			TotalEmployees:    2,
			EnrolledUsers:     1,
			ParticipationRate: 50,
			CompletedModules:  1,
		},
		Impact: models.AggregateImpact{CO2ReducedKg: 500, TreesEquivalent: 24, ParticipatingUsers: 1},
	}

	data, err := PDF(report)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFRejectsUnknownShape(t *testing.T) {
	_, err := PDF(42)
	assert.Error(t, err)
}

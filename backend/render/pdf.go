package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"crowdconscious/backend/models"
)

// Fixed layout coordinates, in points on US Letter.
const (
	marginX   = 54.0
	titleY    = 72.0
	subtitleY = 92.0
	bodyY     = 140.0
	lineStep  = 20.0
	footerY   = 740.0
)

// PDF renders a report into a fixed-position single-page document with the
// standard letterhead and footer.
func PDF(report interface{}) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(marginX, titleY, "Crowd Conscious ESG Report")

	var generated string
	var lines []string

	switch r := report.(type) {
	case *models.IndividualReport:
		generated = r.GeneratedAt.Format("2006-01-02 15:04 MST")
		lines = []string{
			"Module: " + r.Module.Title,
			"Core Value: " + r.Module.CoreValue,
			fmt.Sprintf("Progress: %.1f%% (%s)", r.Progress.ProgressPct, r.Progress.Status),
			fmt.Sprintf("XP Earned: %d", r.Progress.XPEarned),
			fmt.Sprintf("Time Spent: %.0f min", r.Progress.TimeSpentMinutes),
			"",
			"Environmental Impact",
			fmt.Sprintf("CO2 Reduced: %.1f kg", r.Impact.CO2ReducedKg),
			fmt.Sprintf("Water Saved: %.1f L", r.Impact.WaterSavedLiters),
			fmt.Sprintf("Waste Reduced: %.1f kg", r.Impact.WasteReducedKg),
			fmt.Sprintf("Cost Savings: %.2f MXN", r.Impact.CostSavingsMXN),
			fmt.Sprintf("Trees Equivalent: %d", r.Impact.TreesEquivalent),
		}
	case *models.ModuleReport:
		generated = r.GeneratedAt.Format("2006-01-02 15:04 MST")
		lines = []string{
			"Module: " + r.Module.Title,
			"Core Value: " + r.Module.CoreValue,
			fmt.Sprintf("Enrollments: %d (completed %d, in progress %d)",
				r.Participation.TotalEnrollments, r.Participation.Completed, r.Participation.InProgress),
			"Completion Rate: " + r.Participation.CompletionRate + "%",
			"",
			"Aggregate Impact",
			fmt.Sprintf("Participating Users: %d", r.Impact.ParticipatingUsers),
			fmt.Sprintf("CO2 Reduced: %d kg", r.Impact.CO2ReducedKg),
			fmt.Sprintf("Water Saved: %d L", r.Impact.WaterSavedLiters),
			fmt.Sprintf("Waste Reduced: %d kg", r.Impact.WasteReducedKg),
			fmt.Sprintf("Cost Savings: %d MXN", r.Impact.CostSavingsMXN),
			fmt.Sprintf("Trees Equivalent: %d", r.Impact.TreesEquivalent),
		}
	case *models.CorporateReport:
		generated = r.GeneratedAt.Format("2006-01-02 15:04 MST")
		lines = []string{
			"Company: " + r.Company.Name,
			"Industry: " + r.Company.Industry,
			fmt.Sprintf("Employees: %d", r.Company.EmployeeCount),
			fmt.Sprintf("Participation Rate: %.1f%%", r.Participation.ParticipationRate),
			fmt.Sprintf("Completed Modules: %d", r.Participation.CompletedModules),
			"",
			"Aggregate Impact",
			fmt.Sprintf("Participating Users: %d", r.Impact.ParticipatingUsers),
			fmt.Sprintf("CO2 Reduced: %d kg", r.Impact.CO2ReducedKg),
			fmt.Sprintf("Water Saved: %d L", r.Impact.WaterSavedLiters),
			fmt.Sprintf("Waste Reduced: %d kg", r.Impact.WasteReducedKg),
			fmt.Sprintf("Cost Savings: %d MXN", r.Impact.CostSavingsMXN),
			fmt.Sprintf("Trees Equivalent: %d", r.Impact.TreesEquivalent),
		}
	default:
		return nil, fmt.Errorf("unsupported report type %T", report)
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(marginX, subtitleY, "Generated "+generated)

	y := bodyY
	for _, line := range lines {
		if line == "" {
			y += lineStep / 2
			continue
		}
		if line == "Environmental Impact" || line == "Aggregate Impact" {
			pdf.SetFont("Helvetica", "B", 13)
			y += lineStep / 2
			pdf.Text(marginX, y, line)
			pdf.SetFont("Helvetica", "", 11)
			y += lineStep
			continue
		}
		pdf.SetFont("Helvetica", "", 11)
		pdf.Text(marginX, y, line)
		y += lineStep
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.Text(marginX, footerY, "Crowd Conscious - impact through learning")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

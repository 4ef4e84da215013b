package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"crowdconscious/backend/models"
)

const (
	summarySheet = "Summary"
	toolsSheet   = "Tools Used"

	headerGreen = "2E7D32"
	headerBlue  = "1565C0"
)

// Excel renders any of the three report shapes into an xlsx workbook.
func Excel(report interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	var rows [][2]interface{}
	var tools models.ToolsSection

	switch r := report.(type) {
	case *models.IndividualReport:
		rows = [][2]interface{}{
			{"Report Type", "Individual"},
			{"Generated At", r.GeneratedAt.Format("2006-01-02 15:04")},
			{"User ID", r.UserID},
			{"Enrollment ID", r.EnrollmentID},
			{"Module", r.Module.Title},
			{"Core Value", r.Module.CoreValue},
			{"Status", r.Progress.Status},
			{"Progress %", r.Progress.ProgressPct},
			{"XP Earned", r.Progress.XPEarned},
			{"Time Spent (min)", r.Progress.TimeSpentMinutes},
			{"Activities", r.Activities.Count},
			{"Tools Used", r.Tools.Count},
			{"CO2 Reduced (kg)", r.Impact.CO2ReducedKg},
			{"Water Saved (L)", r.Impact.WaterSavedLiters},
			{"Waste Reduced (kg)", r.Impact.WasteReducedKg},
			{"Cost Savings (MXN)", r.Impact.CostSavingsMXN},
			{"Trees Equivalent", r.Impact.TreesEquivalent},
		}
		tools = r.Tools
	case *models.ModuleReport:
		rows = [][2]interface{}{
			{"Report Type", "Module"},
			{"Generated At", r.GeneratedAt.Format("2006-01-02 15:04")},
			{"Module", r.Module.Title},
			{"Core Value", r.Module.CoreValue},
			{"Total Enrollments", r.Participation.TotalEnrollments},
			{"Completed", r.Participation.Completed},
			{"In Progress", r.Participation.InProgress},
			{"Completion Rate (%)", r.Participation.CompletionRate},
			{"Participating Users", r.Impact.ParticipatingUsers},
			{"CO2 Reduced (kg)", r.Impact.CO2ReducedKg},
			{"Water Saved (L)", r.Impact.WaterSavedLiters},
			{"Waste Reduced (kg)", r.Impact.WasteReducedKg},
			{"Cost Savings (MXN)", r.Impact.CostSavingsMXN},
			{"Trees Equivalent", r.Impact.TreesEquivalent},
		}
		tools = r.Tools
	case *models.CorporateReport:
		rows = [][2]interface{}{
			{"Report Type", "Corporate"},
			{"Generated At", r.GeneratedAt.Format("2006-01-02 15:04")},
			{"Company", r.Company.Name},
			{"Industry", r.Company.Industry},
			{"Employee Count", r.Company.EmployeeCount},
			{"Roster Size", r.Participation.TotalEmployees},
			{"Enrolled Users", r.Participation.EnrolledUsers},
			{"Participation Rate (%)", r.Participation.ParticipationRate},
			{"Completed Modules", r.Participation.CompletedModules},
			{"CO2 Reduced (kg)", r.Impact.CO2ReducedKg},
			{"Water Saved (L)", r.Impact.WaterSavedLiters},
			{"Waste Reduced (kg)", r.Impact.WasteReducedKg},
			{"Cost Savings (MXN)", r.Impact.CostSavingsMXN},
			{"Trees Equivalent", r.Impact.TreesEquivalent},
		}
		tools = r.Tools
	default:
		return nil, fmt.Errorf("unsupported report type %T", report)
	}

	header, err := headerStyle(f, headerGreen)
	if err != nil {
		return nil, err
	}
	f.SetCellValue(summarySheet, "A1", "Field")
	f.SetCellValue(summarySheet, "B1", "Value")
	if err := f.SetCellStyle(summarySheet, "A1", "B1", header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		f.SetCellValue(summarySheet, "A"+fmt.Sprint(i+2), row[0])
		f.SetCellValue(summarySheet, "B"+fmt.Sprint(i+2), row[1])
	}
	f.SetColWidth(summarySheet, "A", "B", 28)

	if len(tools.Results) > 0 {
		if _, err := f.NewSheet(toolsSheet); err != nil {
			return nil, err
		}
		blue, err := headerStyle(f, headerBlue)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(toolsSheet, "A1", "Tool")
		f.SetCellValue(toolsSheet, "B1", "Type")
		f.SetCellValue(toolsSheet, "C1", "Saved At")
		if err := f.SetCellStyle(toolsSheet, "A1", "C1", blue); err != nil {
			return nil, err
		}
		for i, tool := range tools.Results {
			f.SetCellValue(toolsSheet, "A"+fmt.Sprint(i+2), tool.ToolName)
			f.SetCellValue(toolsSheet, "B"+fmt.Sprint(i+2), tool.ToolType)
			f.SetCellValue(toolsSheet, "C"+fmt.Sprint(i+2), tool.SavedAt.Format("2006-01-02 15:04"))
		}
		f.SetColWidth(toolsSheet, "A", "C", 24)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func headerStyle(f *excelize.File, fill string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
	})
}

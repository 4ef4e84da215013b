package models

import "time"

// Report scope discriminators.
const (
	ReportTypeIndividual = "individual"
	ReportTypeModule     = "module"
	ReportTypeCorporate  = "corporate"
)

// ImpactMetrics holds the derived environmental/financial figures for one
// report scope. All values keep fractional precision except TreesEquivalent,
// which is always a whole number of trees.
type ImpactMetrics struct {
	CO2ReducedKg     float64 `json:"co2_reduced_kg"`
	WaterSavedLiters float64 `json:"water_saved_liters"`
	WasteReducedKg   float64 `json:"waste_reduced_kg"`
	CostSavingsMXN   float64 `json:"cost_savings_mxn"`
	EnergySavedKWh   float64 `json:"energy_saved_kwh"`
	TreesEquivalent  int     `json:"trees_equivalent"`
}

// AggregateImpact sums per-user impact across a scope. Outputs are rounded to
// integers at this final step only, so per-contribution rounding error never
// compounds.
type AggregateImpact struct {
	CO2ReducedKg       int `json:"co2_reduced_kg"`
	WaterSavedLiters   int `json:"water_saved_liters"`
	WasteReducedKg     int `json:"waste_reduced_kg"`
	CostSavingsMXN     int `json:"cost_savings_mxn"`
	TreesEquivalent    int `json:"trees_equivalent"`
	ParticipatingUsers int `json:"participating_users"`
}

type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type ModuleSummary struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	CoreValue       string `json:"core_value"`
	DurationMinutes int    `json:"duration_minutes"`
	XPReward        int    `json:"xp_reward"`
}

type ProgressSummary struct {
	Status           string     `json:"status"`
	ProgressPct      float64    `json:"progress_pct"`
	XPEarned         int        `json:"xp_earned"`
	TimeSpentMinutes float64    `json:"time_spent_minutes"`
	StartedAt        *time.Time `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	PurchasedAt      *time.Time `json:"purchased_at"`
}

type ActivityEntry struct {
	LessonID   uint        `json:"lesson_id"`
	Responses  ResponseMap `json:"responses"`
	RecordedAt time.Time   `json:"recorded_at"`
}

type ActivitiesSection struct {
	Count     int             `json:"count"`
	Responses []ActivityEntry `json:"responses"`
}

type ToolsSection struct {
	Count   int          `json:"count"`
	Results []ToolResult `json:"results"`
}

type IndividualReport struct {
	ReportType   string            `json:"report_type"`
	GeneratedAt  time.Time         `json:"generated_at"`
	DateRange    DateRange         `json:"date_range"`
	UserID       uint              `json:"user_id"`
	EnrollmentID uint              `json:"enrollment_id"`
	Module       ModuleSummary     `json:"module"`
	Progress     ProgressSummary   `json:"progress"`
	Activities   ActivitiesSection `json:"activities"`
	Tools        ToolsSection      `json:"tools"`
	Impact       ImpactMetrics     `json:"impact"`
}

// ModuleParticipation counts enrollments for one module. CompletionRate is a
// percentage formatted with one decimal ("50.0"), "0.0" when there are no
// enrollments.
type ModuleParticipation struct {
	TotalEnrollments int    `json:"total_enrollments"`
	Completed        int    `json:"completed"`
	InProgress       int    `json:"in_progress"`
	CompletionRate   string `json:"completion_rate"`
}

type ModuleReport struct {
	ReportType    string              `json:"report_type"`
	GeneratedAt   time.Time           `json:"generated_at"`
	DateRange     DateRange           `json:"date_range"`
	Module        ModuleSummary       `json:"module"`
	Participation ModuleParticipation `json:"participation"`
	Tools         ToolsSection        `json:"tools"`
	Impact        AggregateImpact     `json:"impact"`
}

type CompanySummary struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Industry      string `json:"industry"`
	EmployeeCount int    `json:"employee_count"`
}

// CorporateParticipation relates the company roster to actual enrollment.
// ParticipationRate is a percentage; 0 when the roster is empty.
type CorporateParticipation struct {
	TotalEmployees    int     `json:"total_employees"`
	EnrolledUsers     int     `json:"enrolled_users"`
	ParticipationRate float64 `json:"participation_rate"`
	CompletedModules  int     `json:"completed_modules"`
}

type CoreValueBreakdown struct {
	CoreValue   string `json:"core_value"`
	Enrollments int    `json:"enrollments"`
	Completed   int    `json:"completed"`
	XPEarned    int    `json:"xp_earned"`
}

type CorporateReport struct {
	ReportType    string                 `json:"report_type"`
	GeneratedAt   time.Time              `json:"generated_at"`
	DateRange     DateRange              `json:"date_range"`
	Company       CompanySummary         `json:"company"`
	Participation CorporateParticipation `json:"participation"`
	ByCoreValue   []CoreValueBreakdown   `json:"by_core_value"`
	Tools         ToolsSection           `json:"tools"`
	Impact        AggregateImpact        `json:"impact"`
}

package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"crowdconscious/backend/models"
)

// ErrNotFound signals that the scoped entity (enrollment, module or corporate
// account) does not exist or is not visible to the caller. The API boundary
// maps it to 404.
var ErrNotFound = errors.New("report scope not found")

type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// ReportFilter bounds which activities count towards a report. Both bounds
// are inclusive and optional.
type ReportFilter struct {
	From *time.Time
	To   *time.Time
}

func (f ReportFilter) scope(q *gorm.DB) *gorm.DB {
	if f.From != nil {
		q = q.Where("activity_responses.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("activity_responses.created_at <= ?", *f.To)
	}
	return q
}

// effective resolves the range reported back to the caller: explicit bounds
// when given, otherwise anchor .. now.
func (f ReportFilter) effective(anchor, now time.Time) models.DateRange {
	r := models.DateRange{From: anchor, To: now}
	if f.From != nil {
		r.From = *f.From
	}
	if f.To != nil {
		r.To = *f.To
	}
	return r
}

// BuildIndividual assembles the report for one of the caller's enrollments.
// Only the owning user's enrollment is visible; anyone else gets ErrNotFound
// rather than a hint that the enrollment exists.
func (s *ReportService) BuildIndividual(ctx context.Context, userID, enrollmentID uint, filter ReportFilter) (*models.IndividualReport, error) {
	var enrollment models.Enrollment
	err := s.DB.WithContext(ctx).Preload("Module").
		Where("id = ? AND user_id = ?", enrollmentID, userID).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch enrollment: %w", err)
	}

	activities, err := s.fetchActivities(ctx, []uint{enrollment.ID}, filter)
	if err != nil {
		return nil, err
	}

	var entries []models.ActivityEntry
	var tools []models.ToolResult
	for i := range activities {
		entries = append(entries, models.ActivityEntry{
			LessonID:   activities[i].LessonID,
			Responses:  activities[i].Responses,
			RecordedAt: activities[i].CreatedAt,
		})
		for _, tool := range activities[i].ToolResults() {
			tool.UserID = enrollment.UserID
			tools = append(tools, tool)
		}
	}

	now := time.Now().UTC()
	return &models.IndividualReport{
		ReportType:   models.ReportTypeIndividual,
		GeneratedAt:  now,
		DateRange:    filter.effective(enrollment.CreatedAt, now),
		UserID:       enrollment.UserID,
		EnrollmentID: enrollment.ID,
		Module:       summarizeModule(enrollment.Module),
		Progress: models.ProgressSummary{
			Status:           enrollment.Status,
			ProgressPct:      enrollment.ProgressPct,
			XPEarned:         enrollment.XPEarned,
			TimeSpentMinutes: enrollment.TimeSpentMinutes,
			StartedAt:        enrollment.StartedAt,
			CompletedAt:      enrollment.CompletedAt,
			PurchasedAt:      enrollment.PurchasedAt,
		},
		Activities: models.ActivitiesSection{Count: len(entries), Responses: entries},
		Tools:      models.ToolsSection{Count: len(tools), Results: tools},
		Impact:     CalculateImpactMetrics(tools),
	}, nil
}

// BuildModule pools every enrollment of one module. Impact goes through the
// per-user aggregate path so a later per-user cap can slot in without
// changing report shapes.
func (s *ReportService) BuildModule(ctx context.Context, moduleID uint, filter ReportFilter) (*models.ModuleReport, error) {
	var module models.Module
	err := s.DB.WithContext(ctx).First(&module, moduleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch module: %w", err)
	}

	var enrollments []models.Enrollment
	if err := s.DB.WithContext(ctx).Where("module_id = ?", moduleID).Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("fetch enrollments: %w", err)
	}

	participation := models.ModuleParticipation{TotalEnrollments: len(enrollments)}
	enrollmentIDs := make([]uint, 0, len(enrollments))
	userByEnrollment := make(map[uint]uint, len(enrollments))
	for _, e := range enrollments {
		enrollmentIDs = append(enrollmentIDs, e.ID)
		userByEnrollment[e.ID] = e.UserID
		switch e.Status {
		case models.StatusCompleted:
			participation.Completed++
		case models.StatusInProgress:
			participation.InProgress++
		}
	}
	participation.CompletionRate = completionRate(participation.Completed, participation.TotalEnrollments)

	tools, err := s.pooledTools(ctx, enrollmentIDs, userByEnrollment, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &models.ModuleReport{
		ReportType:    models.ReportTypeModule,
		GeneratedAt:   now,
		DateRange:     filter.effective(module.CreatedAt, now),
		Module:        summarizeModule(module),
		Participation: participation,
		Tools:         models.ToolsSection{Count: len(tools), Results: tools},
		Impact:        CalculateAggregateImpact(tools),
	}, nil
}

// BuildCorporate scopes enrollments and activities to a company's roster and
// adds the by-core-value breakdown.
func (s *ReportService) BuildCorporate(ctx context.Context, accountID uint, filter ReportFilter) (*models.CorporateReport, error) {
	var account models.CorporateAccount
	err := s.DB.WithContext(ctx).First(&account, accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch corporate account: %w", err)
	}

	var employees []models.Employee
	if err := s.DB.WithContext(ctx).Where("corporate_account_id = ?", accountID).Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("fetch employees: %w", err)
	}
	userIDs := make([]uint, 0, len(employees))
	for _, e := range employees {
		userIDs = append(userIDs, e.UserID)
	}

	var enrollments []models.Enrollment
	if len(userIDs) > 0 {
		if err := s.DB.WithContext(ctx).Preload("Module").Where("user_id IN ?", userIDs).Find(&enrollments).Error; err != nil {
			return nil, fmt.Errorf("fetch enrollments: %w", err)
		}
	}

	enrolledUsers := make(map[uint]struct{})
	buckets := make(map[string]*models.CoreValueBreakdown)
	enrollmentIDs := make([]uint, 0, len(enrollments))
	userByEnrollment := make(map[uint]uint, len(enrollments))
	completedModules := 0
	for _, e := range enrollments {
		enrolledUsers[e.UserID] = struct{}{}
		enrollmentIDs = append(enrollmentIDs, e.ID)
		userByEnrollment[e.ID] = e.UserID

		b, ok := buckets[e.Module.CoreValue]
		if !ok {
			b = &models.CoreValueBreakdown{CoreValue: e.Module.CoreValue}
			buckets[e.Module.CoreValue] = b
		}
		b.Enrollments++
		b.XPEarned += e.XPEarned
		if e.Status == models.StatusCompleted {
			b.Completed++
			completedModules++
		}
	}

	byCoreValue := make([]models.CoreValueBreakdown, 0, len(buckets))
	for _, b := range buckets {
		byCoreValue = append(byCoreValue, *b)
	}
	sort.Slice(byCoreValue, func(i, j int) bool { return byCoreValue[i].CoreValue < byCoreValue[j].CoreValue })

	participation := models.CorporateParticipation{
		TotalEmployees:   len(employees),
		EnrolledUsers:    len(enrolledUsers),
		CompletedModules: completedModules,
	}
	if participation.TotalEmployees > 0 {
		participation.ParticipationRate = 100 * float64(participation.EnrolledUsers) / float64(participation.TotalEmployees)
	}

	tools, err := s.pooledTools(ctx, enrollmentIDs, userByEnrollment, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &models.CorporateReport{
		ReportType:  models.ReportTypeCorporate,
		GeneratedAt: now,
		DateRange:   filter.effective(account.CreatedAt, now),
		Company: models.CompanySummary{
			ID:            account.ID,
			Name:          account.Name,
			Industry:      account.Industry,
			EmployeeCount: account.EmployeeCount,
		},
		Participation: participation,
		ByCoreValue:   byCoreValue,
		Tools:         models.ToolsSection{Count: len(tools), Results: tools},
		Impact:        CalculateAggregateImpact(tools),
	}, nil
}

func (s *ReportService) fetchActivities(ctx context.Context, enrollmentIDs []uint, filter ReportFilter) ([]models.ActivityResponse, error) {
	if len(enrollmentIDs) == 0 {
		return nil, nil
	}
	var activities []models.ActivityResponse
	q := s.DB.WithContext(ctx).Where("enrollment_id IN ?", enrollmentIDs)
	q = filter.scope(q)
	if err := q.Order("created_at ASC, id ASC").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	return activities, nil
}

// pooledTools extracts tool results across many enrollments, tagging each
// with its owning user id for per-user impact attribution.
func (s *ReportService) pooledTools(ctx context.Context, enrollmentIDs []uint, userByEnrollment map[uint]uint, filter ReportFilter) ([]models.ToolResult, error) {
	activities, err := s.fetchActivities(ctx, enrollmentIDs, filter)
	if err != nil {
		return nil, err
	}
	var tools []models.ToolResult
	for i := range activities {
		for _, tool := range activities[i].ToolResults() {
			tool.UserID = userByEnrollment[activities[i].EnrollmentID]
			tools = append(tools, tool)
		}
	}
	return tools, nil
}

func summarizeModule(m models.Module) models.ModuleSummary {
	return models.ModuleSummary{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		CoreValue:       m.CoreValue,
		DurationMinutes: m.DurationMinutes,
		XPReward:        m.XPReward,
	}
}

// completionRate formats completed/total as a percentage with one decimal,
// "0.0" when there are no enrollments.
func completionRate(completed, total int) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", 100*float64(completed)/float64(total))
}

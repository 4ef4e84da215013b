package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crowdconscious/backend/config"
	"crowdconscious/backend/middleware"
	"crowdconscious/backend/models"
	"crowdconscious/backend/utils"
)

type EnrollmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewEnrollmentsController(db *gorm.DB, cfg *config.Config) *EnrollmentsController {
	return &EnrollmentsController{DB: db, Cfg: cfg}
}

// ownedEnrollment fetches an enrollment only if the caller owns it.
func (ec *EnrollmentsController) ownedEnrollment(c *fiber.Ctx) (*models.Enrollment, error) {
	enrollmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.BadRequest(c, "Invalid enrollment ID")
	}

	userID := middleware.CurrentUserID(c)
	var enrollment models.Enrollment
	if err := ec.DB.Where("id = ? AND user_id = ?", enrollmentID, userID).First(&enrollment).Error; err != nil {
		return nil, utils.NotFound(c, "Enrollment not found")
	}
	return &enrollment, nil
}

var statusRank = map[string]int{
	models.StatusNotStarted: 0,
	models.StatusInProgress: 1,
	models.StatusCompleted:  2,
}

type progressRequest struct {
	Status           string  `json:"status"`
	ProgressPct      float64 `json:"progress_pct"`
	XPEarned         int     `json:"xp_earned"`
	TimeSpentMinutes float64 `json:"time_spent_minutes"`
}

// UpdateProgress applies a learning-progress event to the caller's
// enrollment. Status only moves forward; timestamps are stamped on the first
// transition into each state.
func (ec *EnrollmentsController) UpdateProgress(c *fiber.Ctx) error {
	enrollment, ferr := ec.ownedEnrollment(c)
	if enrollment == nil {
		return ferr
	}

	var req progressRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	switch req.Status {
	case "", models.StatusNotStarted, models.StatusInProgress, models.StatusCompleted:
	default:
		return utils.BadRequest(c, "Unknown status: "+req.Status)
	}
	if req.ProgressPct < 0 || req.ProgressPct > 100 {
		return utils.BadRequest(c, "progress_pct must be between 0 and 100")
	}
	if req.Status != "" && statusRank[req.Status] < statusRank[enrollment.Status] {
		return utils.BadRequest(c, "Status cannot move backwards from "+enrollment.Status)
	}

	now := time.Now().UTC()
	if req.Status == models.StatusInProgress && enrollment.StartedAt == nil {
		enrollment.StartedAt = &now
	}
	if req.Status == models.StatusCompleted {
		if enrollment.StartedAt == nil {
			enrollment.StartedAt = &now
		}
		if enrollment.CompletedAt == nil {
			enrollment.CompletedAt = &now
		}
	}
	if req.Status != "" {
		enrollment.Status = req.Status
	}
	if req.ProgressPct > enrollment.ProgressPct {
		enrollment.ProgressPct = req.ProgressPct
	}
	enrollment.XPEarned += req.XPEarned
	enrollment.TimeSpentMinutes += req.TimeSpentMinutes

	if err := ec.DB.Save(enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Could not update progress")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"enrollment_id": enrollment.ID,
		"status":        enrollment.Status,
		"progress_pct":  enrollment.ProgressPct,
		"xp_earned":     enrollment.XPEarned,
	})
}

type activityRequest struct {
	LessonID  uint               `json:"lesson_id"`
	Responses models.ResponseMap `json:"responses"`
}

// SubmitActivity persists one lesson interaction record, including any tool
// results embedded in the response map. Tool entries must carry a payload.
func (ec *EnrollmentsController) SubmitActivity(c *fiber.Ctx) error {
	enrollment, ferr := ec.ownedEnrollment(c)
	if enrollment == nil {
		return ferr
	}

	var req activityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if req.LessonID == 0 {
		return utils.BadRequest(c, "lesson_id is required")
	}

	for key, value := range req.Responses {
		if strings.HasPrefix(key, models.ToolPrefix) {
			if value.Tool == nil || value.Tool.ToolType == "" {
				return utils.BadRequest(c, "Tool entry "+key+" is missing its payload")
			}
			if value.Tool.SavedAt.IsZero() {
				value.Tool.SavedAt = time.Now().UTC()
				req.Responses[key] = value
			}
		}
	}

	activity := models.ActivityResponse{
		EnrollmentID: enrollment.ID,
		LessonID:     req.LessonID,
		Responses:    req.Responses,
	}
	if err := ec.DB.Create(&activity).Error; err != nil {
		return utils.InternalServerError(c, "Could not save activity", err.Error())
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"activity_id": activity.ID,
		"tools":       len(activity.ToolResults()),
	})
}

// GetActivities lists the caller's activity records for one enrollment.
func (ec *EnrollmentsController) GetActivities(c *fiber.Ctx) error {
	enrollment, ferr := ec.ownedEnrollment(c)
	if enrollment == nil {
		return ferr
	}

	var activities []models.ActivityResponse
	if err := ec.DB.Where("enrollment_id = ?", enrollment.ID).
		Order("created_at ASC").Find(&activities).Error; err != nil {
		return utils.InternalServerError(c, "Could not list activities")
	}

	result := make([]fiber.Map, 0, len(activities))
	for i := range activities {
		result = append(result, fiber.Map{
			"id":          activities[i].ID,
			"lesson_id":   activities[i].LessonID,
			"responses":   activities[i].Responses,
			"recorded_at": activities[i].CreatedAt,
		})
	}
	return c.JSON(result)
}

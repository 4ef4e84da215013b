package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crowdconscious/backend/config"
	"crowdconscious/backend/middleware"
	"crowdconscious/backend/models"
	"crowdconscious/backend/render"
	"crowdconscious/backend/services"
	"crowdconscious/backend/utils"
)

type ReportController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Logger  *logrus.Logger
	Reports *services.ReportService
}

func NewReportController(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *ReportController {
	return &ReportController{DB: db, Cfg: cfg, Logger: logger, Reports: services.NewReportService(db)}
}

// GenerateReport is the single report endpoint. Query parameters select the
// scope (type + id), the date window and the serialization (json, excel,
// pdf). Generation is read-only; a report is either fully assembled or an
// error is returned.
func (rc *ReportController) GenerateReport(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		return utils.Unauthorized(c, "Unauthorized")
	}

	format := c.Query("format", "json")
	switch format {
	case "json", "excel", "pdf":
	default:
		return utils.BadRequest(c, "Unknown format: "+format)
	}
	reportType := c.Query("type", models.ReportTypeIndividual)

	filter, err := parseReportFilter(c)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Context(), rc.Cfg.ReportQueryTimeout)
	defer cancel()

	log := rc.Logger.WithFields(logrus.Fields{
		"user_id": userID,
		"type":    reportType,
		"format":  format,
	})

	var report interface{}
	switch reportType {
	case models.ReportTypeIndividual:
		enrollmentID := c.QueryInt("enrollment_id")
		if enrollmentID <= 0 {
			return utils.BadRequest(c, "enrollment_id is required for individual reports")
		}
		report, err = rc.Reports.BuildIndividual(ctx, userID, uint(enrollmentID), filter)

	case models.ReportTypeModule:
		moduleID := c.QueryInt("module_id")
		if moduleID <= 0 {
			return utils.BadRequest(c, "module_id is required for module reports")
		}
		if !rc.isAdmin(userID) {
			return utils.Forbidden(c, "Admin access required for module reports")
		}
		report, err = rc.Reports.BuildModule(ctx, uint(moduleID), filter)

	case models.ReportTypeCorporate:
		accountID := c.QueryInt("corporate_account_id")
		if accountID <= 0 {
			return utils.BadRequest(c, "corporate_account_id is required for corporate reports")
		}
		if !rc.canViewCorporate(userID, uint(accountID)) {
			return utils.Forbidden(c, "No access to this corporate account")
		}
		report, err = rc.Reports.BuildCorporate(ctx, uint(accountID), filter)

	default:
		return utils.BadRequest(c, "Unknown report type: "+reportType)
	}

	if errors.Is(err, services.ErrNotFound) {
		log.WithField("outcome", "not_found").Warn("report scope not found")
		return utils.NotFound(c, "Report scope not found")
	}
	if err != nil {
		log.WithField("outcome", "error").WithError(err).Error("report generation failed")
		return utils.InternalServerError(c, "Failed to generate report", err.Error())
	}

	log.WithField("outcome", "ok").Info("report generated")

	switch format {
	case "excel":
		data, renderErr := render.Excel(report)
		if renderErr != nil {
			log.WithError(renderErr).Error("excel rendering failed")
			return utils.InternalServerError(c, "Failed to render report", renderErr.Error())
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="esg-report-%d.xlsx"`, time.Now().UnixMilli()))
		return c.Send(data)
	case "pdf":
		data, renderErr := render.PDF(report)
		if renderErr != nil {
			log.WithError(renderErr).Error("pdf rendering failed")
			return utils.InternalServerError(c, "Failed to render report", renderErr.Error())
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="esg-report-%d.pdf"`, time.Now().UnixMilli()))
		return c.Send(data)
	}
	return c.JSON(report)
}

func (rc *ReportController) isAdmin(userID uint) bool {
	var user models.User
	if err := rc.DB.First(&user, userID).Error; err != nil {
		return false
	}
	return user.Role == "admin"
}

// canViewCorporate allows platform admins and members of the account itself.
func (rc *ReportController) canViewCorporate(userID, accountID uint) bool {
	var user models.User
	if err := rc.DB.First(&user, userID).Error; err != nil {
		return false
	}
	if user.Role == "admin" {
		return true
	}
	return user.CorporateAccountID != nil && *user.CorporateAccountID == accountID
}

// parseReportFilter reads the optional inclusive date bounds. Full RFC 3339
// timestamps and bare dates are both accepted; a bare date_to covers the
// whole day.
func parseReportFilter(c *fiber.Ctx) (services.ReportFilter, error) {
	var filter services.ReportFilter

	if raw := c.Query("date_from"); raw != "" {
		t, _, err := parseBound(raw)
		if err != nil {
			return filter, errors.New("Invalid date_from format. Use RFC 3339 or YYYY-MM-DD")
		}
		filter.From = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, dateOnly, err := parseBound(raw)
		if err != nil {
			return filter, errors.New("Invalid date_to format. Use RFC 3339 or YYYY-MM-DD")
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.To = &t
	}
	return filter, nil
}

func parseBound(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

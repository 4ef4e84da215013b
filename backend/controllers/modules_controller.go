package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"crowdconscious/backend/config"
	"crowdconscious/backend/middleware"
	"crowdconscious/backend/models"
	"crowdconscious/backend/utils"
)

type ModulesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewModulesController(db *gorm.DB, cfg *config.Config) *ModulesController {
	return &ModulesController{DB: db, Cfg: cfg}
}

type createModuleRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	CoreValue       string          `json:"core_value"`
	DurationMinutes int             `json:"duration_minutes"`
	XPReward        int             `json:"xp_reward"`
	Content         json.RawMessage `json:"content"`
}

// CreateModule is the admin-side module builder endpoint.
func (mc *ModulesController) CreateModule(c *fiber.Ctx) error {
	var req createModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if req.Title == "" {
		return utils.BadRequest(c, "title is required")
	}

	module := models.Module{
		Title:           req.Title,
		Description:     req.Description,
		CoreValue:       req.CoreValue,
		DurationMinutes: req.DurationMinutes,
		XPReward:        req.XPReward,
		Content:         datatypes.JSON(req.Content),
	}
	if err := mc.DB.Create(&module).Error; err != nil {
		return utils.InternalServerError(c, "Could not create module", err.Error())
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"id":         module.ID,
		"title":      module.Title,
		"core_value": module.CoreValue,
	})
}

// GetModules lists the catalog, filterable by core value.
func (mc *ModulesController) GetModules(c *fiber.Ctx) error {
	query := mc.DB.Model(&models.Module{})
	if coreValue := c.Query("core_value"); coreValue != "" {
		query = query.Where("core_value = ?", coreValue)
	}

	var modules []models.Module
	if err := query.Order("id").Find(&modules).Error; err != nil {
		return utils.InternalServerError(c, "Could not list modules")
	}

	result := make([]fiber.Map, 0, len(modules))
	for _, m := range modules {
		result = append(result, fiber.Map{
			"id":               m.ID,
			"title":            m.Title,
			"description":      m.Description,
			"core_value":       m.CoreValue,
			"duration_minutes": m.DurationMinutes,
			"xp_reward":        m.XPReward,
		})
	}
	return c.JSON(result)
}

func (mc *ModulesController) GetModuleDetails(c *fiber.Ctx) error {
	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var module models.Module
	if err := mc.DB.First(&module, moduleID).Error; err != nil {
		return utils.NotFound(c, "Module not found")
	}

	var enrollmentCount int64
	mc.DB.Model(&models.Enrollment{}).Where("module_id = ?", module.ID).Count(&enrollmentCount)

	return c.JSON(fiber.Map{
		"id":               module.ID,
		"title":            module.Title,
		"description":      module.Description,
		"core_value":       module.CoreValue,
		"duration_minutes": module.DurationMinutes,
		"xp_reward":        module.XPReward,
		"content":          module.Content,
		"enrollments":      enrollmentCount,
	})
}

type enrollRequest struct {
	PromoCode string `json:"promo_code"`
}

// Enroll creates an enrollment for the caller, optionally redeeming a promo
// code. Enrolling twice in the same module is rejected.
func (mc *ModulesController) Enroll(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	moduleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid module ID")
	}

	var module models.Module
	if err := mc.DB.First(&module, moduleID).Error; err != nil {
		return utils.NotFound(c, "Module not found")
	}

	var req enrollRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.BadRequest(c, "Cannot parse JSON")
		}
	}

	var existing models.Enrollment
	err = mc.DB.Where("user_id = ? AND module_id = ?", userID, module.ID).First(&existing).Error
	if err == nil {
		return utils.BadRequest(c, "Already enrolled in this module")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not check enrollment")
	}

	discount := 0
	if req.PromoCode != "" {
		promo, promoErr := mc.redeemPromo(req.PromoCode, module.ID)
		if promoErr != nil {
			return utils.BadRequest(c, promoErr.Error())
		}
		discount = promo.DiscountPct
	}

	now := time.Now().UTC()
	enrollment := models.Enrollment{
		UserID:      userID,
		ModuleID:    module.ID,
		Status:      models.StatusNotStarted,
		PurchasedAt: &now,
	}
	if err := mc.DB.Create(&enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Could not create enrollment", err.Error())
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"enrollment_id": enrollment.ID,
		"module_id":     module.ID,
		"status":        enrollment.Status,
		"discount_pct":  discount,
	})
}

// redeemPromo validates and consumes one redemption. The consume is a
// guarded UPDATE that re-checks the cap at write time, so two concurrent
// enrollments cannot both spend the last redemption of a capped code.
func (mc *ModulesController) redeemPromo(code string, moduleID uint) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code = ?", code).First(&promo).Error; err != nil {
			return errors.New("Unknown promo code")
		}
		if promo.ModuleID != nil && *promo.ModuleID != moduleID {
			return errors.New("Promo code not valid for this module")
		}
		if !promo.Redeemable(time.Now().UTC()) {
			return errors.New("Promo code expired or exhausted")
		}
		res := tx.Model(&models.PromoCode{}).
			Where("id = ? AND (max_redemptions = 0 OR redeemed < max_redemptions)", promo.ID).
			Update("redeemed", gorm.Expr("redeemed + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("Promo code expired or exhausted")
		}
		promo.Redeemed++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"crowdconscious/backend/config"
	"crowdconscious/backend/models"
	"crowdconscious/backend/utils"
)

type PromoController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewPromoController(db *gorm.DB, cfg *config.Config) *PromoController {
	return &PromoController{DB: db, Cfg: cfg}
}

type createPromoRequest struct {
	DiscountPct    int        `json:"discount_pct"`
	ModuleID       *uint      `json:"module_id"`
	MaxRedemptions int        `json:"max_redemptions"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// CreatePromoCode mints a new code. Codes are uppercase uuid fragments, short
// enough to read out over the phone.
func (pc *PromoController) CreatePromoCode(c *fiber.Ctx) error {
	var req createPromoRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if req.DiscountPct <= 0 || req.DiscountPct > 100 {
		return utils.BadRequest(c, "discount_pct must be between 1 and 100")
	}

	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	promo := models.PromoCode{
		Code:           code,
		DiscountPct:    req.DiscountPct,
		ModuleID:       req.ModuleID,
		MaxRedemptions: req.MaxRedemptions,
		ExpiresAt:      req.ExpiresAt,
	}
	if err := pc.DB.Create(&promo).Error; err != nil {
		return utils.InternalServerError(c, "Could not create promo code", err.Error())
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"code":         promo.Code,
		"discount_pct": promo.DiscountPct,
		"expires_at":   promo.ExpiresAt,
	})
}

func (pc *PromoController) ListPromoCodes(c *fiber.Ctx) error {
	var codes []models.PromoCode
	if err := pc.DB.Order("id").Find(&codes).Error; err != nil {
		return utils.InternalServerError(c, "Could not list promo codes")
	}

	now := time.Now().UTC()
	result := make([]fiber.Map, 0, len(codes))
	for i := range codes {
		result = append(result, fiber.Map{
			"code":            codes[i].Code,
			"discount_pct":    codes[i].DiscountPct,
			"module_id":       codes[i].ModuleID,
			"max_redemptions": codes[i].MaxRedemptions,
			"redeemed":        codes[i].Redeemed,
			"expires_at":      codes[i].ExpiresAt,
			"redeemable":      codes[i].Redeemable(now),
		})
	}
	return c.JSON(result)
}

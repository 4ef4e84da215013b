package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crowdconscious/backend/config"
	"crowdconscious/backend/middleware"
	"crowdconscious/backend/models"
	"crowdconscious/backend/utils"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	var enrollmentCount int64
	uc.DB.Model(&models.Enrollment{}).Where("user_id = ?", userID).Count(&enrollmentCount)

	return c.JSON(fiber.Map{
		"id":                   user.ID,
		"email":                user.Email,
		"full_name":            user.FullName,
		"role":                 user.Role,
		"corporate_account_id": user.CorporateAccountID,
		"enrollments":          enrollmentCount,
	})
}

func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)

	var req struct {
		FullName string `json:"full_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := uc.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("full_name", req.FullName).Error; err != nil {
		return utils.InternalServerError(c, "Could not update profile")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"full_name": req.FullName})
}

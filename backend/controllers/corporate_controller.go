package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crowdconscious/backend/config"
	"crowdconscious/backend/middleware"
	"crowdconscious/backend/models"
	"crowdconscious/backend/utils"
)

type CorporateController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCorporateController(db *gorm.DB, cfg *config.Config) *CorporateController {
	return &CorporateController{DB: db, Cfg: cfg}
}

type createAccountRequest struct {
	Name          string `json:"name"`
	Industry      string `json:"industry"`
	EmployeeCount int    `json:"employee_count"`
}

// CreateAccount registers a corporate customer (admin only).
func (cc *CorporateController) CreateAccount(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if req.Name == "" {
		return utils.BadRequest(c, "name is required")
	}

	account := models.CorporateAccount{
		Name:          req.Name,
		Industry:      req.Industry,
		EmployeeCount: req.EmployeeCount,
	}
	if err := cc.DB.Create(&account).Error; err != nil {
		return utils.InternalServerError(c, "Could not create corporate account", err.Error())
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{"id": account.ID, "name": account.Name})
}

type addEmployeeRequest struct {
	UserID   uint   `json:"user_id"`
	JobTitle string `json:"job_title"`
}

// AddEmployee puts an existing user on the account's roster and links the
// user back to the account (admin only).
func (cc *CorporateController) AddEmployee(c *fiber.Ctx) error {
	accountID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid corporate account ID")
	}

	var account models.CorporateAccount
	if err := cc.DB.First(&account, accountID).Error; err != nil {
		return utils.NotFound(c, "Corporate account not found")
	}

	var req addEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	var user models.User
	if err := cc.DB.First(&user, req.UserID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	var existing models.Employee
	err = cc.DB.Where("corporate_account_id = ? AND user_id = ?", account.ID, user.ID).First(&existing).Error
	if err == nil {
		return utils.BadRequest(c, "User is already on this roster")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not check roster")
	}

	employee := models.Employee{
		CorporateAccountID: account.ID,
		UserID:             user.ID,
		JobTitle:           req.JobTitle,
	}
	if err := cc.DB.Create(&employee).Error; err != nil {
		return utils.InternalServerError(c, "Could not add employee", err.Error())
	}
	if err := cc.DB.Model(&user).Update("corporate_account_id", account.ID).Error; err != nil {
		return utils.InternalServerError(c, "Could not link user to account", err.Error())
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"account_id": account.ID,
		"user_id":    user.ID,
	})
}

// GetEmployees lists the roster of one corporate account. Visible to platform
// admins and members of the account.
func (cc *CorporateController) GetEmployees(c *fiber.Ctx) error {
	accountID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid corporate account ID")
	}

	userID := middleware.CurrentUserID(c)
	var caller models.User
	if err := cc.DB.First(&caller, userID).Error; err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	member := caller.CorporateAccountID != nil && *caller.CorporateAccountID == uint(accountID)
	if caller.Role != "admin" && !member {
		return utils.Forbidden(c, "No access to this corporate account")
	}

	var account models.CorporateAccount
	if err := cc.DB.First(&account, accountID).Error; err != nil {
		return utils.NotFound(c, "Corporate account not found")
	}

	var employees []models.Employee
	if err := cc.DB.Where("corporate_account_id = ?", account.ID).Find(&employees).Error; err != nil {
		return utils.InternalServerError(c, "Could not list employees")
	}

	userIDs := make([]uint, 0, len(employees))
	for _, e := range employees {
		userIDs = append(userIDs, e.UserID)
	}
	usersByID := make(map[uint]models.User, len(userIDs))
	if len(userIDs) > 0 {
		var users []models.User
		if err := cc.DB.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return utils.InternalServerError(c, "Could not list employees")
		}
		for _, u := range users {
			usersByID[u.ID] = u
		}
	}

	result := make([]fiber.Map, 0, len(employees))
	for _, e := range employees {
		user := usersByID[e.UserID]
		result = append(result, fiber.Map{
			"user_id":   e.UserID,
			"full_name": user.FullName,
			"email":     user.Email,
			"job_title": e.JobTitle,
		})
	}

	return c.JSON(fiber.Map{
		"account": fiber.Map{
			"id":       account.ID,
			"name":     account.Name,
			"industry": account.Industry,
		},
		"employees": result,
	})
}

package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crowdconscious/backend/config"
	"crowdconscious/backend/controllers"
	"crowdconscious/backend/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Module catalog + enrollment
	modulesController := controllers.NewModulesController(db, cfg)
	modules := app.Group("/api/modules", authMiddleware)
	modules.Get("/", modulesController.GetModules)
	modules.Get("/:id", modulesController.GetModuleDetails)
	modules.Post("/:id/enroll", modulesController.Enroll)

	// Enrollment progress + activity capture
	enrollmentsController := controllers.NewEnrollmentsController(db, cfg)
	enrollments := app.Group("/api/enrollments", authMiddleware)
	enrollments.Post("/:id/progress", enrollmentsController.UpdateProgress)
	enrollments.Post("/:id/activities", enrollmentsController.SubmitActivity)
	enrollments.Get("/:id/activities", enrollmentsController.GetActivities)

	// Reports
	reportController := controllers.NewReportController(db, cfg, logger)
	app.Get("/api/reports", authMiddleware, reportController.GenerateReport)

	// Corporate accounts
	corporateController := controllers.NewCorporateController(db, cfg)
	app.Get("/api/corporate/:id/employees", authMiddleware, corporateController.GetEmployees)

	// Admin routes
	admin := app.Group("/api/admin", adminMiddleware)
	admin.Post("/modules", modulesController.CreateModule)
	admin.Post("/corporate", corporateController.CreateAccount)
	admin.Post("/corporate/:id/employees", corporateController.AddEmployee)

	promoController := controllers.NewPromoController(db, cfg)
	admin.Post("/promo-codes", promoController.CreatePromoCode)
	admin.Get("/promo-codes", promoController.ListPromoCodes)
}

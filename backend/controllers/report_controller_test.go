package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crowdconscious/backend/config"
	"crowdconscious/backend/middleware"
	"crowdconscious/backend/models"
	"crowdconscious/backend/utils"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, utils.Migrate(db))

	cfg := &config.Config{JWTSecret: "test-secret", ReportQueryTimeout: 5 * time.Second}
	log := utils.InitLogger()

	app := fiber.New()
	authMiddleware := middleware.AuthMiddleware(cfg)
	reportController := NewReportController(db, cfg, log)
	app.Get("/api/reports", authMiddleware, reportController.GenerateReport)

	return &testEnv{app: app, db: db, cfg: cfg}
}

func (e *testEnv) seedUser(t *testing.T, role string) (models.User, string) {
	t.Helper()
	user := models.User{Email: role + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, e.db.Create(&user).Error)
	token, err := utils.GenerateJWTToken(user.ID, e.cfg)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) seedEnrollmentWithTool(t *testing.T, userID uint) models.Enrollment {
	t.Helper()
	module := models.Module{Title: "Clean Air Basics", CoreValue: "clean_air", XPReward: 100}
	require.NoError(t, e.db.Create(&module).Error)
	enrollment := models.Enrollment{UserID: userID, ModuleID: module.ID, Status: models.StatusInProgress}
	require.NoError(t, e.db.Create(&enrollment).Error)
	activity := models.ActivityResponse{
		EnrollmentID: enrollment.ID,
		LessonID:     1,
		Responses: models.ResponseMap{
			"tool_air-quality-roi": {Tool: &models.ToolPayload{
				ToolType: "roi",
				Data:     map[string]interface{}{"annualSavings": 1000.0},
				SavedAt:  time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
			}},
		},
	}
	require.NoError(t, e.db.Create(&activity).Error)
	return enrollment
}

type testResponse struct {
	Code   int
	Header map[string][]string
	Body   []byte
}

func (r *testResponse) headerGet(key string) string {
	values := r.Header[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (e *testEnv) get(t *testing.T, url, token string) *testResponse {
	t.Helper()
	req := httptest.NewRequest("GET", url, nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return &testResponse{Code: resp.StatusCode, Header: resp.Header, Body: body}
}

func TestReportRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/api/reports?type=individual&enrollment_id=1", "")

	assert.Equal(t, fiber.StatusUnauthorized, rec.Code)
}

func TestReportMissingEnrollmentID(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "user")

	rec := env.get(t, "/api/reports?type=individual", token)

	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body, &body))
	assert.NotEmpty(t, body["error"])
}

func TestReportNonexistentEnrollment(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "user")

	rec := env.get(t, "/api/reports?type=individual&enrollment_id=9999", token)

	assert.Equal(t, fiber.StatusNotFound, rec.Code)
}

func TestReportUnknownType(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "user")

	rec := env.get(t, "/api/reports?type=galactic", token)

	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestReportBadDateParam(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "user")
	enrollment := env.seedEnrollmentWithTool(t, user.ID)

	rec := env.get(t, "/api/reports?enrollment_id="+itoa(enrollment.ID)+"&date_from=not-a-date", token)

	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestIndividualReportJSON(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "user")
	enrollment := env.seedEnrollmentWithTool(t, user.ID)

	rec := env.get(t, "/api/reports?type=individual&enrollment_id="+itoa(enrollment.ID), token)

	require.Equal(t, fiber.StatusOK, rec.Code)
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body, &report))

	assert.Equal(t, "individual", report["report_type"])
	impact := report["impact"].(map[string]interface{})
	assert.Equal(t, 1000.0, impact["cost_savings_mxn"])
	assert.Equal(t, 500.0, impact["co2_reduced_kg"])
	assert.Equal(t, 24.0, impact["trees_equivalent"])
}

func TestIndividualReportHidesOtherUsersEnrollments(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.seedUser(t, "user")
	enrollment := env.seedEnrollmentWithTool(t, owner.ID)
	_, otherToken := env.seedUser(t, "other")

	rec := env.get(t, "/api/reports?type=individual&enrollment_id="+itoa(enrollment.ID), otherToken)

	assert.Equal(t, fiber.StatusNotFound, rec.Code)
}

func TestModuleReportRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "user")
	enrollment := env.seedEnrollmentWithTool(t, user.ID)

	rec := env.get(t, "/api/reports?type=module&module_id="+itoa(enrollment.ModuleID), token)

	assert.Equal(t, fiber.StatusForbidden, rec.Code)
}

func TestModuleReportAsAdmin(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.seedUser(t, "user")
	enrollment := env.seedEnrollmentWithTool(t, user.ID)
	require.NoError(t, env.db.Model(&enrollment).Update("status", models.StatusCompleted).Error)
	_, adminToken := env.seedUser(t, "admin")

	rec := env.get(t, "/api/reports?type=module&module_id="+itoa(enrollment.ModuleID), adminToken)

	require.Equal(t, fiber.StatusOK, rec.Code)
	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body, &report))
	assert.Equal(t, "module", report["report_type"])
	participation := report["participation"].(map[string]interface{})
	assert.Equal(t, "100.0", participation["completion_rate"])
}

func TestReportExcelDownload(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "user")
	enrollment := env.seedEnrollmentWithTool(t, user.ID)

	rec := env.get(t, "/api/reports?enrollment_id="+itoa(enrollment.ID)+"&format=excel", token)

	require.Equal(t, fiber.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.headerGet("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.headerGet("Content-Disposition"), `attachment; filename="esg-report-`))
	assert.NotEmpty(t, rec.Body)
}

func TestReportPDFDownload(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "user")
	enrollment := env.seedEnrollmentWithTool(t, user.ID)

	rec := env.get(t, "/api/reports?enrollment_id="+itoa(enrollment.ID)+"&format=pdf", token)

	require.Equal(t, fiber.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.headerGet("Content-Type"))
	assert.True(t, strings.HasPrefix(string(rec.Body), "%PDF"))
}

func TestReportUnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.seedUser(t, "user")
	enrollment := env.seedEnrollmentWithTool(t, user.ID)

	rec := env.get(t, "/api/reports?enrollment_id="+itoa(enrollment.ID)+"&format=csv", token)

	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
}

func TestReportUnknownFormatRejectedBeforeScopeCheck(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.seedUser(t, "user")
	enrollment := env.seedEnrollmentWithTool(t, owner.ID)
	_, otherToken := env.seedUser(t, "other")

	// A foreign enrollment would 404; the format error must win because it
	// is checked before any report query runs.
	rec := env.get(t, "/api/reports?enrollment_id="+itoa(enrollment.ID)+"&format=csv", otherToken)

	assert.Equal(t, fiber.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body, &body))
	assert.Contains(t, body["error"], "format")
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

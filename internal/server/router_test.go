package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/database"
	"github.com/yukikurage/project-management-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type apiClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func newTestServer(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	database.SetDB(db)
	require.NoError(t, database.Migrate(zap.NewNop()))

	router := NewRouter(Options{
		DB:           db,
		SessionStore: cookie.NewStore([]byte("test-secret")),
		Now:          func() time.Time { return testNow },
	})
	return db, router
}

func (c *apiClient) do(method, path string, payload any) *httptest.ResponseRecorder {
	c.t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "router-test")
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return w
}

func signupAndLogin(t *testing.T, router *gin.Engine, name string) *apiClient {
	t.Helper()

	client := &apiClient{t: t, router: router}
	email := strings.ToLower(name) + "@example.com"

	w := client.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = client.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(t, client.cookies)
	return client
}

func TestRouter_Health(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouter_AuditsAuthenticatedRequests(t *testing.T) {
	db, router := newTestServer(t)
	alice := signupAndLogin(t, router, "Alice")

	w := alice.do(http.MethodPost, "/api/projects", map[string]any{
		"name":     "Apollo",
		"deadline": testNow.Add(72 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var project struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	var created models.ActivityLog
	require.NoError(t, db.Where("event = ?", "POST /projects").First(&created).Error)
	assert.Equal(t, models.ActionCreate, created.Action)
	require.NotNil(t, created.Model)
	assert.Equal(t, "Project", *created.Model)
	assert.Nil(t, created.ModelID)
	assert.Equal(t, "Alice created a Project", created.Description)
	assert.Equal(t, "employee", created.UserRole)
	assert.Equal(t, "router-test", created.UserAgent)

	w = alice.do(http.MethodGet, "/api/projects/"+jsonID(project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var viewed models.ActivityLog
	require.NoError(t, db.Where("action = ?", models.ActionView).Last(&viewed).Error)
	require.NotNil(t, viewed.ModelID)
	assert.Equal(t, project.ID, *viewed.ModelID)
	assert.Equal(t, "Alice viewed a Project", viewed.Description)

	// auth routes are outside the audited group
	var authRows int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Where("event LIKE ?", "%/auth/%").Count(&authRows).Error)
	assert.Zero(t, authRows)

	w = alice.do(http.MethodGet, "/api/activity-logs?action=create", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice created a Project")
}

func TestRouter_AuditsFailedRequests(t *testing.T) {
	db, router := newTestServer(t)
	bob := signupAndLogin(t, router, "Bob")

	w := bob.do(http.MethodGet, "/api/tasks/17", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var entry models.ActivityLog
	require.NoError(t, db.Where("event = ?", "GET /tasks/17").First(&entry).Error)
	assert.Equal(t, "Bob viewed a Task", entry.Description)
	require.NotNil(t, entry.ModelID)
	assert.Equal(t, uint64(17), *entry.ModelID)
}

func TestRouter_AnonymousRequestsAreNotAudited(t *testing.T) {
	db, router := newTestServer(t)
	anonymous := &apiClient{t: t, router: router}

	w := anonymous.do(http.MethodGet, "/api/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRouter_ProjectMembershipNotifications(t *testing.T) {
	db, router := newTestServer(t)
	alice := signupAndLogin(t, router, "Alice")
	bob := signupAndLogin(t, router, "Bob")

	var bobUser models.User
	require.NoError(t, db.Where("email = ?", "bob@example.com").First(&bobUser).Error)

	w := alice.do(http.MethodPost, "/api/projects", map[string]any{"name": "Gemini"})
	require.Equal(t, http.StatusCreated, w.Code)
	var project struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	w = alice.do(http.MethodPost, "/api/projects/"+jsonID(project.ID)+"/members", map[string]any{"user_id": bobUser.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = bob.do(http.MethodGet, "/api/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	_, router := newTestServer(t)
	alice := signupAndLogin(t, router, "Alice")
	alice.do(http.MethodGet, "/api/projects", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "project_management_activity_log_writes_total")
}

func jsonID(id uint64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}

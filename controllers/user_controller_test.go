package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tawan-r/ruenthai-api/config"
	"github.com/tawan-r/ruenthai-api/controllers"
	"github.com/tawan-r/ruenthai-api/middleware"
	"github.com/tawan-r/ruenthai-api/models"
	"github.com/tawan-r/ruenthai-api/tests/testutil"
)

func setupUserRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	config.SetDB(db)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/users", testutil.MockAuthMiddleware("auth0|somchai", models.RoleUser), controllers.CreateUser)
	v1.POST("/users-cashier", testutil.MockAuthMiddleware("auth0|kanya", models.RoleCashier), controllers.CreateUser)

	me := v1.Group("/users/me")
	me.Use(testutil.MockAuthMiddleware("auth0|somchai", models.RoleUser), middleware.ResolveUser())
	me.GET("", controllers.GetMe)
	me.PATCH("", controllers.UpdateMe)

	return router, db
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateUser(t *testing.T) {
	router, db := setupUserRouter(t)

	body := map[string]interface{}{
		"username": "somchai",
		"email":    "somchai@example.com",
		"phone":    "0812345678",
	}
	w := postJSON(router, "/api/v1/users", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Where("auth0_id = ?", "auth0|somchai").First(&user).Error)
	assert.Equal(t, "somchai", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestCreateUser_Idempotent(t *testing.T) {
	router, db := setupUserRouter(t)

	body := map[string]interface{}{
		"username": "somchai",
		"email":    "somchai@example.com",
	}
	w := postJSON(router, "/api/v1/users", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	// A second create for the same subject returns the existing profile
	w = postJSON(router, "/api/v1/users", map[string]interface{}{
		"username": "somebody-else",
		"email":    "other@example.com",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var user models.User
	require.NoError(t, db.Where("auth0_id = ?", "auth0|somchai").First(&user).Error)
	assert.Equal(t, "somchai", user.Username, "existing profile must not be overwritten")
}

func TestCreateUser_RoleFromClaim(t *testing.T) {
	router, db := setupUserRouter(t)

	body := map[string]interface{}{
		"username": "kanya",
		"email":    "kanya@example.com",
	}
	w := postJSON(router, "/api/v1/users-cashier", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, db.Where("auth0_id = ?", "auth0|kanya").First(&user).Error)
	assert.Equal(t, models.RoleCashier, user.Role)
}

func TestCreateUser_InvalidBody(t *testing.T) {
	router, db := setupUserRouter(t)

	w := postJSON(router, "/api/v1/users", map[string]interface{}{
		"username": "somchai",
		"email":    "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetMe(t *testing.T) {
	router, db := setupUserRouter(t)

	user := models.User{Auth0ID: "auth0|somchai", Username: "somchai", Email: "somchai@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)

	req, _ := http.NewRequest("GET", "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, user.ID, response.Data.ID)
	assert.Equal(t, "somchai@example.com", response.Data.Email)
}

func TestGetMe_NoProfile(t *testing.T) {
	router, _ := setupUserRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateMe(t *testing.T) {
	router, db := setupUserRouter(t)

	user := models.User{Auth0ID: "auth0|somchai", Username: "somchai", Email: "somchai@example.com", Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)

	payload, _ := json.Marshal(map[string]interface{}{"phone": "0899999999"})
	req, _ := http.NewRequest("PATCH", "/api/v1/users/me", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "0899999999", updated.Phone)
	assert.Equal(t, "somchai", updated.Username, "unsent fields keep their values")
}

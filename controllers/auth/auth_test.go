package authControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

const testSecret = "test-secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func newRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", Register(db, testSecret))
	r.POST("/auth/login", Login(db, testSecret))
	r.GET("/me", middleware.ValidateToken(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": middleware.Email(c)})
	})
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)

	w := postJSON(t, r, "/auth/register", gin.H{
		"full_name": "Test Buyer",
		"email":     "buyer@example.com",
		"password":  "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "buyer@example.com").First(&user).Error)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.Password) // stored hashed

	w = postJSON(t, r, "/auth/login", gin.H{"email": "buyer@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The issued token passes the middleware.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "buyer@example.com")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)

	body := gin.H{"full_name": "Buyer", "email": "buyer@example.com", "password": "secret123"}
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/auth/register", body).Code)

	w := postJSON(t, r, "/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/auth/register", gin.H{
		"full_name": "Buyer", "email": "buyer@example.com", "password": "secret123",
	}).Code)

	w := postJSON(t, r, "/auth/login", gin.H{"email": "buyer@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginBlockedAccount(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)
	require.Equal(t, http.StatusCreated, postJSON(t, r, "/auth/register", gin.H{
		"full_name": "Buyer", "email": "buyer@example.com", "password": "secret123",
	}).Code)
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "buyer@example.com").Update("active", false).Error)

	w := postJSON(t, r, "/auth/login", gin.H{"email": "buyer@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMiddlewareRejectsGarbageToken(t *testing.T) {
	db := newTestDB(t)
	r := newRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

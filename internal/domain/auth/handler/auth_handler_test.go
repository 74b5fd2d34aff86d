package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"geeknews/internal/domain/auth/service"
	"geeknews/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "auth-handler-test-secret-0123456789"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(service.NewAuthService(testSecret, time.Hour))
	r.POST("/login", h.Login)
	r.GET("/me", middleware.AuthMiddleware(testSecret), h.Me)
	return r
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestLoginHandler(t *testing.T) {
	r := setupRouter()

	t.Run("Admin login then me", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"admin","password":"admin"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		var session service.Session
		require.NoError(t, json.Unmarshal(resp.Data, &session))
		assert.Equal(t, "Admin", session.User.Username)
		assert.NotEmpty(t, session.Token)

		req = httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+session.Token)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)
	})

	t.Run("Missing password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"bob"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/pkg/jwt"
	"github.com/dogacademy/academy_go_server/internal/pkg/response"
)

const testSecret = "middleware-test-secret"

func setupAuthRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlers := []gin.HandlerFunc{Auth(testSecret)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		response.Success(c, gin.H{
			"user_id": GetUserID(c),
			"role":    GetRole(c),
		})
	})

	r.GET("/protected", handlers...)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, token string) *response.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp
}

func TestAuth_ValidToken(t *testing.T) {
	r := setupAuthRouter()

	token, err := jwt.GenerateToken(42, model.RoleAdmin, testSecret, 1)
	require.NoError(t, err)

	resp := doRequest(t, r, token)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(42), data["user_id"])
	assert.Equal(t, model.RoleAdmin, data["role"])
}

func TestAuth_MissingHeader(t *testing.T) {
	r := setupAuthRouter()

	resp := doRequest(t, r, "")
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	r := setupAuthRouter()

	resp := doRequest(t, r, "not-a-token")
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuth_WrongSecret(t *testing.T) {
	r := setupAuthRouter()

	token, err := jwt.GenerateToken(42, model.RoleAdmin, "other-secret", 1)
	require.NoError(t, err)

	resp := doRequest(t, r, token)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestRequireRole(t *testing.T) {
	r := setupAuthRouter(model.RoleAdmin, model.RoleTeacher)

	adminToken, err := jwt.GenerateToken(1, model.RoleAdmin, testSecret, 1)
	require.NoError(t, err)
	teacherToken, err := jwt.GenerateToken(2, model.RoleTeacher, testSecret, 1)
	require.NoError(t, err)
	clientToken, err := jwt.GenerateToken(3, model.RoleClient, testSecret, 1)
	require.NoError(t, err)

	assert.Equal(t, response.CodeSuccess, doRequest(t, r, adminToken).Code)
	assert.Equal(t, response.CodeSuccess, doRequest(t, r, teacherToken).Code)
	assert.Equal(t, response.CodePermissionDenied, doRequest(t, r, clientToken).Code)
}

package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", handler)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Success(c, gin.H{"id": 1})
	})

	resp := decode(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "success", resp.Message)
	assert.NotNil(t, resp.Data)
}

func TestSuccessPage(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		SuccessPage(c, 42, 2, 20, []string{"a", "b"})
	})

	resp := decode(t, w)
	assert.Equal(t, CodeSuccess, resp.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(42), data["total"])
	assert.Equal(t, float64(2), data["page"])
}

func TestErrorDefaultMessages(t *testing.T) {
	cases := []struct {
		name    string
		handler gin.HandlerFunc
		code    int
		message string
	}{
		{"param", func(c *gin.Context) { ParamError(c, "") }, CodeParamError, "参数错误"},
		{"auth", func(c *gin.Context) { AuthError(c, "") }, CodeAuthFailed, "认证失败"},
		{"permission", func(c *gin.Context) { PermissionError(c, "") }, CodePermissionDenied, "权限不足"},
		{"not found", func(c *gin.Context) { NotFoundError(c, "") }, CodeResourceNotFound, "资源不存在"},
		{"business", func(c *gin.Context) { BusinessError(c, "") }, CodeBusinessError, "业务规则不满足"},
		{"server", func(c *gin.Context) { ServerError(c, "") }, CodeServerError, "服务器内部错误"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(tc.handler)
			resp := decode(t, w)
			assert.Equal(t, tc.code, resp.Code)
			assert.Equal(t, tc.message, resp.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestErrorCustomMessage(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		BusinessError(c, "套餐课时已用完")
	})

	resp := decode(t, w)
	assert.Equal(t, CodeBusinessError, resp.Code)
	assert.Equal(t, "套餐课时已用完", resp.Message)
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/config"
	"github.com/dogacademy/academy_go_server/internal/api/handler"
	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/pkg/jwt"
	"github.com/dogacademy/academy_go_server/internal/pkg/response"
	"github.com/dogacademy/academy_go_server/internal/pkg/ws"
	"github.com/dogacademy/academy_go_server/internal/repository"
	"github.com/dogacademy/academy_go_server/internal/service"
	"github.com/dogacademy/academy_go_server/internal/testutil"
)

const testSecret = "router-test-secret"

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = testSecret
	cfg.JWT.ExpireHours = 1
	cfg.CORS.AllowedOrigins = []string{"*"}

	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	dogRepo := repository.NewDogRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	authSvc := service.NewAuthService(db, userRepo, clientRepo, nil, nil, cfg)
	clientSvc := service.NewClientService(clientRepo, dogRepo, nil)
	catalogSvc := service.NewCatalogService(serviceRepo)
	packageSvc := service.NewPackageService(db, packageRepo, alertRepo, clientRepo, nil, cfg)
	apptSvc := service.NewAppointmentService(apptRepo, clientRepo, userRepo, packageSvc)
	billingSvc := service.NewBillingService(db, invoiceRepo, paymentRepo, clientRepo, nil, nil)
	alertSvc := service.NewAlertService(alertRepo, clientRepo)
	dashboardSvc := service.NewDashboardService(packageRepo, alertRepo)

	h := &Handlers{
		Auth:        handler.NewAuthHandler(authSvc, nil),
		Client:      handler.NewClientHandler(clientSvc),
		Appointment: handler.NewAppointmentHandler(apptSvc, catalogSvc),
		Billing:     handler.NewBillingHandler(billingSvc),
		Package:     handler.NewPackageHandler(packageSvc),
		Alert:       handler.NewAlertHandler(alertSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
		Portal:      handler.NewPortalHandler(clientSvc, packageSvc, apptSvc, billingSvc, alertSvc),
		WebSocket:   handler.NewWebSocketHandler(ws.NewHub(), testSecret),
	}

	return SetupRouter(cfg, h), db
}

func tokenFor(t *testing.T, userID int64, role string) string {
	t.Helper()

	token, err := jwt.GenerateToken(userID, role, testSecret, 1)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *response.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp
}

func TestRouter_ConsumeFlow(t *testing.T) {
	r, db := setupTestServer(t)

	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	client := testutil.TestClient(t, db)
	pkg := testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 6))
	token := tokenFor(t, admin.ID, model.RoleAdmin)

	resp := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/packages/%d/consume", pkg.ID), token, gin.H{
		"session_date": time.Now().Format(time.RFC3339),
		"session_type": "training",
	})
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	pkgData := data["package"].(map[string]interface{})
	assert.Equal(t, float64(3), pkgData["remaining_sessions"])
	assert.Equal(t, model.PackageFinishing, pkgData["status"])

	// 剩余 3 次生成红色提醒
	resp = doJSON(t, r, http.MethodGet, "/api/v1/alerts/pending", token, nil)
	require.Equal(t, response.CodeSuccess, resp.Code)
	alerts := resp.Data.([]interface{})
	require.Len(t, alerts, 1)
	alert := alerts[0].(map[string]interface{})
	assert.Equal(t, model.AlertLowSessions, alert["alert_type"])
	assert.Equal(t, model.AlertRed, alert["level"])
}

func TestRouter_ConsumeExhausted(t *testing.T) {
	r, db := setupTestServer(t)

	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	client := testutil.TestClient(t, db)
	pkg := testutil.TestPackage(t, db, client.ID, testutil.WithSessions(3, 3))
	token := tokenFor(t, admin.ID, model.RoleAdmin)

	resp := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/packages/%d/consume", pkg.ID), token, gin.H{
		"session_date": time.Now().Format(time.RFC3339),
	})
	assert.Equal(t, response.CodeBusinessError, resp.Code)
	assert.Equal(t, "套餐无可用课时", resp.Message)
}

func TestRouter_Permissions(t *testing.T) {
	r, db := setupTestServer(t)

	clientUser := testutil.TestUser(t, db, testutil.WithRole(model.RoleClient))
	teacher := testutil.TestUser(t, db, testutil.WithRole(model.RoleTeacher))
	clientToken := tokenFor(t, clientUser.ID, model.RoleClient)
	teacherToken := tokenFor(t, teacher.ID, model.RoleTeacher)

	// 客户角色不能访问管理端
	resp := doJSON(t, r, http.MethodGet, "/api/v1/clients", clientToken, nil)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)

	// 训导师不能核验支付
	resp = doJSON(t, r, http.MethodGet, "/api/v1/payments/pending", teacherToken, nil)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)

	// 训导师不能访问客户门户
	resp = doJSON(t, r, http.MethodGet, "/api/v1/portal/me", teacherToken, nil)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)

	// 未认证
	resp = doJSON(t, r, http.MethodGet, "/api/v1/clients", "", nil)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestRouter_Portal(t *testing.T) {
	r, db := setupTestServer(t)

	user := testutil.TestUser(t, db, testutil.WithRole(model.RoleClient))
	client := testutil.TestClient(t, db, testutil.WithClientUser(user.ID))
	other := testutil.TestClient(t, db)

	testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 2))
	otherPkg := testutil.TestPackage(t, db, other.ID)
	testutil.TestAlert(t, db, otherPkg.ID, other.ID, model.AlertLowSessions, model.AlertRed)

	token := tokenFor(t, user.ID, model.RoleClient)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/portal/me", token, nil)
	require.Equal(t, response.CodeSuccess, resp.Code)
	me := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(client.ID), me["id"])

	// 只能看到自己的套餐
	resp = doJSON(t, r, http.MethodGet, "/api/v1/portal/packages", token, nil)
	require.Equal(t, response.CodeSuccess, resp.Code)
	pkgs := resp.Data.([]interface{})
	require.Len(t, pkgs, 1)

	// 不能读别人套餐的课时记录
	resp = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/portal/packages/%d/sessions", otherPkg.ID), token, nil)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)

	// 别人的提醒不可见
	resp = doJSON(t, r, http.MethodGet, "/api/v1/portal/alerts", token, nil)
	require.Equal(t, response.CodeSuccess, resp.Code)
	alerts := resp.Data.([]interface{})
	assert.Empty(t, alerts)
}

func TestRouter_PaymentVerifyFlow(t *testing.T) {
	r, db := setupTestServer(t)

	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	client := testutil.TestClient(t, db)
	invoice := testutil.TestInvoice(t, db, client.ID)
	token := tokenFor(t, admin.ID, model.RoleAdmin)

	// 登记支付（无收据的 JSON 表单走 multipart 绑定失败，这里直接建支付记录）
	payment := &model.Payment{
		InvoiceID: invoice.ID,
		ClientID:  client.ID,
		Amount:    3000,
		Method:    "transfer",
		Status:    model.PaymentPending,
	}
	require.NoError(t, db.Create(payment).Error)

	resp := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/payments/%d/verify", payment.ID), token, nil)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var updatedInvoice model.Invoice
	require.NoError(t, db.First(&updatedInvoice, invoice.ID).Error)
	assert.Equal(t, model.InvoicePaid, updatedInvoice.Status)

	// 二次核验拒绝
	resp = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/payments/%d/verify", payment.ID), token, nil)
	assert.Equal(t, response.CodeBusinessError, resp.Code)
}

func TestRouter_DashboardMetrics(t *testing.T) {
	r, db := setupTestServer(t)

	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	client := testutil.TestClient(t, db)
	testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 0))
	testutil.TestPackage(t, db, client.ID, testutil.WithSessions(10, 8))
	token := tokenFor(t, admin.ID, model.RoleAdmin)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/dashboard/metrics", token, nil)
	require.Equal(t, response.CodeSuccess, resp.Code)

	metrics := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), metrics["active_packages"])
	assert.Equal(t, float64(1), metrics["finishing_packages"])
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	r, _ := setupTestServer(t)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":  "chenxiao",
		"email":     "chen@example.com",
		"password":  "password123",
		"full_name": "陈晓",
	})
	require.Equal(t, response.CodeSuccess, resp.Code)

	resp = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "chen@example.com",
		"password": "password123",
	})
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	loginToken := data["token"].(string)
	require.NotEmpty(t, loginToken)

	// 新注册账号可访问门户
	resp = doJSON(t, r, http.MethodGet, "/api/v1/portal/me", loginToken, nil)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestRouter_Health(t *testing.T) {
	r, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

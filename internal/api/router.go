package api

import (
	"github.com/gin-gonic/gin"

	"github.com/dogacademy/academy_go_server/config"
	"github.com/dogacademy/academy_go_server/internal/api/handler"
	"github.com/dogacademy/academy_go_server/internal/api/middleware"
	"github.com/dogacademy/academy_go_server/internal/model"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Auth        *handler.AuthHandler
	Client      *handler.ClientHandler
	Appointment *handler.AppointmentHandler
	Billing     *handler.BillingHandler
	Package     *handler.PackageHandler
	Alert       *handler.AlertHandler
	Dashboard   *handler.DashboardHandler
	Portal      *handler.PortalHandler
	WebSocket   *handler.WebSocketHandler
}

// SetupRouter 组装全部路由
func SetupRouter(cfg *config.Config, h *Handlers) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// WebSocket 自行处理认证（token 查询参数）
	r.GET("/ws", h.WebSocket.Connect)

	v1 := r.Group("/api/v1")

	// 公开接口
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}

	// 登录用户
	authed := v1.Group("")
	authed.Use(middleware.Auth(cfg.JWT.Secret))
	{
		authed.GET("/profile", h.Auth.GetProfile)
		authed.PUT("/profile", h.Auth.UpdateProfile)
		authed.POST("/profile/avatar", h.Auth.UploadAvatar)
	}

	// 管理端：管理员与训导师
	staff := v1.Group("")
	staff.Use(middleware.Auth(cfg.JWT.Secret), middleware.RequireRole(model.RoleAdmin, model.RoleTeacher))
	{
		staff.GET("/teachers", h.Auth.ListTeachers)
		staff.GET("/teachers/:id/appointments", h.Appointment.ListByTeacher)

		clients := staff.Group("/clients")
		{
			clients.POST("", h.Client.Create)
			clients.GET("", h.Client.List)
			clients.GET("/:id", h.Client.Get)
			clients.PUT("/:id", h.Client.Update)
			clients.DELETE("/:id", h.Client.Delete)
			clients.POST("/:id/dogs", h.Client.CreateDog)
			clients.GET("/:id/dogs", h.Client.ListDogs)
			clients.GET("/:id/packages", h.Package.ListByClient)
			clients.GET("/:id/appointments", h.Appointment.ListByClient)
			clients.GET("/:id/invoices", h.Billing.ListInvoicesByClient)
			clients.GET("/:id/alerts", h.Alert.ListByClient)
			clients.POST("/:id/alerts/read-all", h.Alert.MarkAllReadByClient)
		}

		dogs := staff.Group("/dogs")
		{
			dogs.GET("/:id", h.Client.GetDog)
			dogs.PUT("/:id", h.Client.UpdateDog)
			dogs.DELETE("/:id", h.Client.DeleteDog)
			dogs.POST("/:id/photo", h.Client.UploadDogPhoto)
		}

		services := staff.Group("/services")
		{
			services.POST("", h.Appointment.CreateService)
			services.GET("", h.Appointment.ListServices)
			services.GET("/:id", h.Appointment.GetService)
			services.PUT("/:id", h.Appointment.UpdateService)
			services.DELETE("/:id", h.Appointment.DeleteService)
		}

		appointments := staff.Group("/appointments")
		{
			appointments.POST("", h.Appointment.Create)
			appointments.GET("", h.Appointment.List)
			appointments.GET("/:id", h.Appointment.Get)
			appointments.PUT("/:id", h.Appointment.Update)
			appointments.PUT("/:id/status", h.Appointment.UpdateStatus)
			appointments.DELETE("/:id", h.Appointment.Delete)
		}

		packages := staff.Group("/packages")
		{
			packages.POST("", h.Package.Create)
			packages.GET("", h.Package.List)
			packages.GET("/alertable", h.Package.ListAlertable)
			packages.GET("/:id", h.Package.Get)
			packages.PUT("/:id", h.Package.Update)
			packages.DELETE("/:id", h.Package.Delete)
			packages.POST("/:id/consume", h.Package.Consume)
			packages.GET("/:id/sessions", h.Package.ListSessions)
			packages.GET("/:id/alerts", h.Alert.ListByPackage)
			packages.POST("/:id/recompute", h.Package.Recompute)
			packages.POST("/recompute", h.Package.RecomputeAll)
		}

		alerts := staff.Group("/alerts")
		{
			alerts.GET("/pending", h.Alert.ListPending)
			alerts.PUT("/:id/read", h.Alert.MarkRead)
		}

		invoices := staff.Group("/invoices")
		{
			invoices.POST("", h.Billing.CreateInvoice)
			invoices.GET("", h.Billing.ListInvoices)
			invoices.GET("/:id", h.Billing.GetInvoice)
			invoices.PUT("/:id", h.Billing.UpdateInvoice)
			invoices.POST("/:id/payments", h.Billing.RecordPayment)
		}

		staff.GET("/dashboard/metrics", h.Dashboard.Metrics)
		staff.GET("/ws/status", h.WebSocket.Status)
	}

	// 仅管理员
	admin := v1.Group("")
	admin.Use(middleware.Auth(cfg.JWT.Secret), middleware.RequireRole(model.RoleAdmin))
	{
		admin.DELETE("/invoices/:id", h.Billing.DeleteInvoice)
		admin.GET("/payments/pending", h.Billing.ListPendingPayments)
		admin.PUT("/payments/:id/verify", h.Billing.VerifyPayment)
		admin.PUT("/payments/:id/reject", h.Billing.RejectPayment)
	}

	// 客户门户：只读自己的数据
	portal := v1.Group("/portal")
	portal.Use(middleware.Auth(cfg.JWT.Secret), middleware.RequireRole(model.RoleClient))
	{
		portal.GET("/me", h.Portal.Me)
		portal.GET("/dogs", h.Portal.MyDogs)
		portal.GET("/packages", h.Portal.MyPackages)
		portal.GET("/packages/:id/sessions", h.Portal.MyPackageSessions)
		portal.GET("/appointments", h.Portal.MyAppointments)
		portal.GET("/invoices", h.Portal.MyInvoices)
		portal.GET("/alerts", h.Portal.MyAlerts)
		portal.POST("/alerts/read-all", h.Portal.ReadMyAlerts)
	}

	return r
}

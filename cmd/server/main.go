package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dogacademy/academy_go_server/config"
	"github.com/dogacademy/academy_go_server/internal/api"
	"github.com/dogacademy/academy_go_server/internal/api/handler"
	"github.com/dogacademy/academy_go_server/internal/cron"
	"github.com/dogacademy/academy_go_server/internal/database"
	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/pkg/email"
	"github.com/dogacademy/academy_go_server/internal/pkg/oauth"
	"github.com/dogacademy/academy_go_server/internal/pkg/oss"
	"github.com/dogacademy/academy_go_server/internal/pkg/pubsub"
	"github.com/dogacademy/academy_go_server/internal/pkg/queue"
	"github.com/dogacademy/academy_go_server/internal/pkg/ws"
	"github.com/dogacademy/academy_go_server/internal/repository"
	"github.com/dogacademy/academy_go_server/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}

	ossClient, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		log.Printf("OSS not available, uploads disabled: %v", err)
		ossClient = nil
	}

	var googleOAuth *oauth.GoogleOAuth
	var stateStore *oauth.StateStore
	if cfg.OAuth.Google.ClientID != "" {
		googleOAuth = oauth.NewGoogleOAuth(
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			cfg.OAuth.Google.RedirectURI,
		)
		stateStore = oauth.NewStateStore(rdb)
	}

	alertQueue := queue.NewQueue(rdb, cfg.Queue.AlertQueue)
	emailSvc := email.NewService(&cfg.Email)
	hub := ws.NewHub()

	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	dogRepo := repository.NewDogRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	authSvc := service.NewAuthService(db, userRepo, clientRepo, googleOAuth, stateStore, cfg)
	clientSvc := service.NewClientService(clientRepo, dogRepo, ossClient)
	catalogSvc := service.NewCatalogService(serviceRepo)
	packageSvc := service.NewPackageService(db, packageRepo, alertRepo, clientRepo, alertQueue, cfg)
	apptSvc := service.NewAppointmentService(apptRepo, clientRepo, userRepo, packageSvc)
	billingSvc := service.NewBillingService(db, invoiceRepo, paymentRepo, clientRepo, ossClient, emailSvc)
	alertSvc := service.NewAlertService(alertRepo, clientRepo)
	dashboardSvc := service.NewDashboardService(packageRepo, alertRepo)

	handlers := &api.Handlers{
		Auth:        handler.NewAuthHandler(authSvc, ossClient),
		Client:      handler.NewClientHandler(clientSvc),
		Appointment: handler.NewAppointmentHandler(apptSvc, catalogSvc),
		Billing:     handler.NewBillingHandler(billingSvc),
		Package:     handler.NewPackageHandler(packageSvc),
		Alert:       handler.NewAlertHandler(alertSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
		Portal:      handler.NewPortalHandler(clientSvc, packageSvc, apptSvc, billingSvc, alertSvc),
		WebSocket:   handler.NewWebSocketHandler(hub, cfg.JWT.Secret),
	}

	router := api.SetupRouter(cfg, handlers)

	// worker 发布的提醒事件推送到 WebSocket：
	// 管理端广播，绑定了门户账号的客户定向推送
	subCtx, subCancel := context.WithCancel(context.Background())
	defer subCancel()
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(subCtx, func(event *pubsub.AlertEvent) {
			msg := &ws.Message{Type: event.Type, Data: event}
			if err := hub.BroadcastToRole(model.RoleAdmin, msg); err != nil {
				log.Printf("Broadcast to admins failed: %v", err)
			}
			if event.UserID > 0 {
				if err := hub.SendToUser(event.UserID, msg); err != nil {
					log.Printf("Send to user %d failed: %v", event.UserID, err)
				}
			}
		})
		if err != nil && err != context.Canceled {
			log.Printf("Alert subscriber stopped: %v", err)
		}
	}()

	// 每日维护任务
	scheduler := cron.NewScheduler(packageSvc, invoiceRepo, cfg.Packages.ExpiringSoonDays)
	scheduler.Start()
	defer scheduler.Stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

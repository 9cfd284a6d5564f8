package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dogacademy/academy_go_server/config"
	"github.com/dogacademy/academy_go_server/internal/database"
	"github.com/dogacademy/academy_go_server/internal/pkg/email"
	"github.com/dogacademy/academy_go_server/internal/pkg/pubsub"
	"github.com/dogacademy/academy_go_server/internal/pkg/queue"
	"github.com/dogacademy/academy_go_server/internal/repository"
)

// 通知 worker：消费提醒队列，发送邮件并发布 WebSocket 推送事件。
// 与 API 进程分离部署，邮件发送慢不影响接口响应。
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

	alertQueue := queue.NewQueue(rdb, cfg.Queue.AlertQueue)
	publisher := pubsub.NewPublisher(rdb)
	emailSvc := email.NewService(&cfg.Email)
	clientRepo := repository.NewClientRepository(db)

	workers := cfg.Queue.MaxWorkers
	if workers <= 0 {
		workers = 2
	}

	ctx, cancel := context.WithCancel(context.Background())

	for i := 0; i < workers; i++ {
		go consumeLoop(ctx, i, alertQueue, publisher, emailSvc, clientRepo, cfg)
	}
	log.Printf("Alert worker started with %d consumers", workers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	cancel()
	time.Sleep(time.Second)
}

func consumeLoop(
	ctx context.Context,
	id int,
	alertQueue *queue.Queue,
	publisher *pubsub.Publisher,
	emailSvc *email.Service,
	clientRepo *repository.ClientRepository,
	cfg *config.Config,
) {
	for {
		select {
		case <-ctx.Done():
			log.Printf("Consumer %d stopped", id)
			return
		default:
		}

		msg, err := alertQueue.Pop(ctx, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Consumer %d pop failed: %v", id, err)
			time.Sleep(time.Second)
			continue
		}
		if msg == nil {
			continue
		}

		handleAlert(ctx, msg, publisher, emailSvc, clientRepo, cfg)
	}
}

// handleAlert 处理一条提醒：邮件通知客户与机构邮箱，再发布推送事件
func handleAlert(
	ctx context.Context,
	msg *queue.AlertMessage,
	publisher *pubsub.Publisher,
	emailSvc *email.Service,
	clientRepo *repository.ClientRepository,
	cfg *config.Config,
) {
	var userID int64

	client, err := clientRepo.GetByID(msg.ClientID)
	if err != nil {
		log.Printf("Alert %d: client %d not found: %v", msg.AlertID, msg.ClientID, err)
	} else {
		if client.UserID != nil {
			userID = *client.UserID
		}
		if client.Email != "" {
			if err := emailSvc.SendPackageAlert(client.Email, msg.PackageName, msg.Message); err != nil {
				log.Printf("Alert %d: send email to %s failed: %v", msg.AlertID, client.Email, err)
			}
		}
	}

	// 机构内部邮箱同步抄送
	if cfg.Email.AdminAddr != "" {
		if err := emailSvc.SendPackageAlert(cfg.Email.AdminAddr, msg.PackageName, msg.Message); err != nil {
			log.Printf("Alert %d: send admin email failed: %v", msg.AlertID, err)
		}
	}

	event := &pubsub.AlertEvent{
		AlertID:     msg.AlertID,
		PackageID:   msg.PackageID,
		PackageName: msg.PackageName,
		ClientID:    msg.ClientID,
		UserID:      userID,
		AlertType:   msg.AlertType,
		Level:       msg.Level,
		Message:     msg.Message,
	}
	if err := publisher.PublishAlert(ctx, event); err != nil {
		log.Printf("Alert %d: publish event failed: %v", msg.AlertID, err)
	}
}

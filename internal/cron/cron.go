package cron

import (
	"log"
	"time"

	"github.com/dogacademy/academy_go_server/internal/repository"
	"github.com/dogacademy/academy_go_server/internal/service"
)

// Scheduler 每日维护任务：套餐状态全量重算、到期提醒扫描、账单逾期标记。
// 凌晨固定时间执行一轮，启动时先补跑一次。
type Scheduler struct {
	packageSvc   *service.PackageService
	invoiceRepo  *repository.InvoiceRepository
	expiringDays int
	runAtHour    int
	stopChan     chan struct{}
}

func NewScheduler(packageSvc *service.PackageService, invoiceRepo *repository.InvoiceRepository, expiringDays int) *Scheduler {
	return &Scheduler{
		packageSvc:   packageSvc,
		invoiceRepo:  invoiceRepo,
		expiringDays: expiringDays,
		runAtHour:    3,
		stopChan:     make(chan struct{}),
	}
}

// Start 启动调度循环
func (s *Scheduler) Start() {
	go s.loop()
}

// Stop 停止调度
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

func (s *Scheduler) loop() {
	s.RunOnce()

	for {
		next := s.nextRun(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			s.RunOnce()
		case <-s.stopChan:
			timer.Stop()
			log.Println("Scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.runAtHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunOnce 执行一轮全部维护任务
func (s *Scheduler) RunOnce() {
	start := time.Now()

	changed, err := s.packageSvc.RecomputeAll(start)
	if err != nil {
		log.Printf("Recompute packages failed: %v", err)
	} else if changed > 0 {
		log.Printf("Recompute packages: %d status changed", changed)
	}

	created, err := s.packageSvc.SweepExpiring(s.expiringDays)
	if err != nil {
		log.Printf("Sweep expiring packages failed: %v", err)
	} else if created > 0 {
		log.Printf("Sweep expiring packages: %d alerts created", created)
	}

	overdue, err := s.invoiceRepo.MarkOverdueBefore(start)
	if err != nil {
		log.Printf("Mark overdue invoices failed: %v", err)
	} else if overdue > 0 {
		log.Printf("Mark overdue invoices: %d updated", overdue)
	}

	log.Printf("Daily maintenance finished in %s", time.Since(start))
}

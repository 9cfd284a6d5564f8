package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/config"
	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/pkg/queue"
	"github.com/dogacademy/academy_go_server/internal/repository"
)

var (
	ErrPackageNotFound    = errors.New("套餐不存在")
	ErrNoSessionsLeft     = errors.New("套餐无可用课时")
	ErrPackageExpired     = errors.New("套餐已过期")
	ErrPackageCompleted   = errors.New("套餐课时已用完")
	ErrInvalidSessionDate = errors.New("课时日期格式无效")
	ErrInvalidExpiryDate  = errors.New("有效期日期格式无效")
)

type PackageService struct {
	db          *gorm.DB
	packageRepo *repository.PackageRepository
	alertRepo   *repository.AlertRepository
	clientRepo  *repository.ClientRepository
	alertQueue  *queue.Queue // 可为空，为空时跳过通知投递
	cfg         *config.Config
}

func NewPackageService(
	db *gorm.DB,
	packageRepo *repository.PackageRepository,
	alertRepo *repository.AlertRepository,
	clientRepo *repository.ClientRepository,
	alertQueue *queue.Queue,
	cfg *config.Config,
) *PackageService {
	return &PackageService{
		db:          db,
		packageRepo: packageRepo,
		alertRepo:   alertRepo,
		clientRepo:  clientRepo,
		alertQueue:  alertQueue,
		cfg:         cfg,
	}
}

// Create 创建套餐，初始 used=0、remaining=total、状态 active
func (s *PackageService) Create(req *dto.CreatePackageRequest) (*model.ServicePackage, error) {
	if _, err := s.clientRepo.GetByID(req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return nil, ErrInvalidExpiryDate
		}
		expiry = &parsed
	}

	pkg := &model.ServicePackage{
		ClientID:          req.ClientID,
		DogID:             req.DogID,
		ServiceID:         req.ServiceID,
		Name:              req.Name,
		TotalSessions:     req.TotalSessions,
		UsedSessions:      0,
		RemainingSessions: req.TotalSessions,
		PurchaseDate:      time.Now(),
		ExpiryDate:        expiry,
		Price:             req.Price,
		Status:            model.PackageActive,
		Notes:             req.Notes,
	}

	if err := s.packageRepo.Create(pkg); err != nil {
		return nil, err
	}

	return pkg, nil
}

func (s *PackageService) Get(id int64) (*model.ServicePackage, error) {
	pkg, err := s.packageRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return pkg, nil
}

// Update 部分更新。只改属性，不触发状态重算。
func (s *PackageService) Update(id int64, req *dto.UpdatePackageRequest) (*model.ServicePackage, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.DogID != nil {
		fields["dog_id"] = *req.DogID
	}
	if req.ServiceID != nil {
		fields["service_id"] = *req.ServiceID
	}
	if req.ExpiryDate != nil {
		if *req.ExpiryDate == "" {
			fields["expiry_date"] = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *req.ExpiryDate)
			if err != nil {
				return nil, ErrInvalidExpiryDate
			}
			fields["expiry_date"] = parsed
		}
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) > 0 {
		if err := s.packageRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	return s.packageRepo.GetByID(id)
}

// Delete 硬删除套餐，历史课时与提醒保留
func (s *PackageService) Delete(id int64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.packageRepo.Delete(id)
}

func (s *PackageService) List(page, pageSize int, status string) ([]*model.ServicePackage, int64, error) {
	return s.packageRepo.List(page, pageSize, status)
}

func (s *PackageService) ListByClient(clientID int64) ([]*model.ServicePackage, error) {
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return s.packageRepo.ListByClient(clientID)
}

func (s *PackageService) ListActiveByClient(clientID int64) ([]*model.ServicePackage, error) {
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return s.packageRepo.ListActiveOrFinishingByClient(clientID)
}

func (s *PackageService) ListWithAlertableStatus() ([]*model.ServicePackage, error) {
	return s.packageRepo.ListWithAlertableStatus()
}

func (s *PackageService) ListSessions(packageID int64) ([]*model.PackageSession, error) {
	if _, err := s.Get(packageID); err != nil {
		return nil, err
	}
	return s.packageRepo.ListSessions(packageID)
}

// Consume 扣减一次课时：写入课时记录、更新计数与状态、按阈值生成提醒。
// 整个写入序列在一个事务内完成，扣减本身是条件更新，
// 并发扣减最后一次课时只有一个调用能成功。
func (s *PackageService) Consume(packageID, registeredBy int64, req *dto.ConsumeSessionRequest) (*dto.ConsumeSessionResponse, error) {
	pkg, err := s.packageRepo.GetByID(packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	// 前置校验按固定顺序，各自是独立的失败模式
	if pkg.RemainingSessions <= 0 {
		return nil, ErrNoSessionsLeft
	}
	if pkg.Status == model.PackageExpired {
		return nil, ErrPackageExpired
	}
	if pkg.Status == model.PackageCompleted {
		return nil, ErrPackageCompleted
	}

	sessionDate, err := time.Parse(time.RFC3339, req.SessionDate)
	if err != nil {
		return nil, ErrInvalidSessionDate
	}

	var session *model.PackageSession
	var updated *model.ServicePackage
	var alert *model.PackageAlert

	err = s.db.Transaction(func(tx *gorm.DB) error {
		pkgRepo := repository.NewPackageRepository(tx)

		ok, err := pkgRepo.DecrementRemaining(packageID)
		if err != nil {
			return err
		}
		if !ok {
			// 并发扣减输掉了竞争
			return ErrNoSessionsLeft
		}

		updated, err = pkgRepo.GetByID(packageID)
		if err != nil {
			return err
		}

		// 扣课时只按剩余课时重算状态，不重新判断过期
		newStatus := model.PartialPackageStatus(updated.RemainingSessions)
		if newStatus != updated.Status {
			if err := pkgRepo.UpdateFields(packageID, map[string]interface{}{"status": newStatus}); err != nil {
				return err
			}
			updated.Status = newStatus
		}

		session = &model.PackageSession{
			PackageID:     packageID,
			ClientID:      updated.ClientID,
			DogID:         updated.DogID,
			AppointmentID: req.AppointmentID,
			SessionDate:   sessionDate,
			SessionType:   req.SessionType,
			Status:        "attended",
			Notes:         req.Notes,
			RegisteredBy:  registeredBy,
		}
		if err := pkgRepo.CreateSession(session); err != nil {
			return err
		}

		if alertType, level, need := model.AlertForRemaining(updated.RemainingSessions); need {
			alert = &model.PackageAlert{
				PackageID: packageID,
				ClientID:  updated.ClientID,
				AlertType: alertType,
				Level:     level,
				Message:   alertMessage(alertType, updated.Name, updated.RemainingSessions),
			}
			if err := repository.NewAlertRepository(tx).Create(alert); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if alert != nil {
		s.enqueueAlert(alert, updated)
	}

	return &dto.ConsumeSessionResponse{
		Session: session,
		Package: updated,
	}, nil
}

// Recompute 按完整规则（含过期判断）重算单个套餐状态
func (s *PackageService) Recompute(id int64) (*model.ServicePackage, error) {
	pkg, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	newStatus := model.DerivePackageStatus(pkg.RemainingSessions, pkg.ExpiryDate, time.Now())
	if newStatus != pkg.Status {
		if err := s.packageRepo.UpdateFields(id, map[string]interface{}{"status": newStatus}); err != nil {
			return nil, err
		}
		pkg.Status = newStatus
	}

	return pkg, nil
}

// RecomputeAll 全量重算，返回状态发生变化的套餐数。定时任务与手工工具共用。
func (s *PackageService) RecomputeAll(now time.Time) (int, error) {
	pkgs, err := s.packageRepo.ListAllForRecompute()
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, pkg := range pkgs {
		newStatus := model.DerivePackageStatus(pkg.RemainingSessions, pkg.ExpiryDate, now)
		if newStatus == pkg.Status {
			continue
		}
		if err := s.packageRepo.UpdateFields(pkg.ID, map[string]interface{}{"status": newStatus}); err != nil {
			log.Printf("Recompute package %d failed: %v", pkg.ID, err)
			continue
		}
		changed++
	}

	return changed, nil
}

// SweepExpiring 为即将到期的套餐生成 expiring_soon 提醒。
// 同一套餐已有未读到期提醒时跳过，避免每日重复。
func (s *PackageService) SweepExpiring(days int) (int, error) {
	deadline := time.Now().AddDate(0, 0, days)
	pkgs, err := s.packageRepo.ListExpiringBefore(deadline)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, pkg := range pkgs {
		exists, err := s.alertRepo.ExistsUnread(pkg.ID, model.AlertExpiringSoon)
		if err != nil || exists {
			continue
		}

		alert := &model.PackageAlert{
			PackageID: pkg.ID,
			ClientID:  pkg.ClientID,
			AlertType: model.AlertExpiringSoon,
			Level:     model.AlertYellow,
			Message:   fmt.Sprintf("套餐「%s」将于 %s 到期，剩余 %d 次课时", pkg.Name, pkg.ExpiryDate.Format("2006-01-02"), pkg.RemainingSessions),
		}
		if err := s.alertRepo.Create(alert); err != nil {
			log.Printf("Sweep expiring: create alert for package %d failed: %v", pkg.ID, err)
			continue
		}
		s.enqueueAlert(alert, pkg)
		created++
	}

	return created, nil
}

func (s *PackageService) enqueueAlert(alert *model.PackageAlert, pkg *model.ServicePackage) {
	if s.alertQueue == nil {
		return
	}

	msg := &queue.AlertMessage{
		AlertID:     alert.ID,
		PackageID:   pkg.ID,
		PackageName: pkg.Name,
		ClientID:    alert.ClientID,
		AlertType:   alert.AlertType,
		Level:       alert.Level,
		Message:     alert.Message,
		Remaining:   pkg.RemainingSessions,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// 投递失败不影响主流程
	if err := s.alertQueue.Push(ctx, msg); err != nil {
		log.Printf("Failed to enqueue alert %d: %v", alert.ID, err)
	}
}

func alertMessage(alertType, packageName string, remaining int) string {
	if alertType == model.AlertPackageCompleted {
		return fmt.Sprintf("套餐「%s」课时已全部用完", packageName)
	}
	return fmt.Sprintf("套餐「%s」剩余 %d 次课时，请提醒客户续购", packageName, remaining)
}

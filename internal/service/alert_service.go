package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/repository"
)

var ErrAlertNotFound = errors.New("提醒不存在")

type AlertService struct {
	alertRepo  *repository.AlertRepository
	clientRepo *repository.ClientRepository
}

func NewAlertService(alertRepo *repository.AlertRepository, clientRepo *repository.ClientRepository) *AlertService {
	return &AlertService{
		alertRepo:  alertRepo,
		clientRepo: clientRepo,
	}
}

// ListPending 全部未读提醒（管理看板）
func (s *AlertService) ListPending() ([]*model.PackageAlert, error) {
	return s.alertRepo.ListPending()
}

// ListUnreadByClient 某客户的未读提醒
func (s *AlertService) ListUnreadByClient(clientID int64) ([]*model.PackageAlert, error) {
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return s.alertRepo.ListUnreadByClient(clientID)
}

// ListByPackage 某套餐的全部提醒记录
func (s *AlertService) ListByPackage(packageID int64) ([]*model.PackageAlert, error) {
	return s.alertRepo.ListByPackage(packageID)
}

// MarkRead 单条标记已读
func (s *AlertService) MarkRead(id int64) (*model.PackageAlert, error) {
	if _, err := s.alertRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	if err := s.alertRepo.MarkRead(id); err != nil {
		return nil, err
	}
	return s.alertRepo.GetByID(id)
}

// MarkAllReadByClient 按客户批量已读，返回更新条数
func (s *AlertService) MarkAllReadByClient(clientID int64) (int64, error) {
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrClientNotFound
		}
		return 0, err
	}
	return s.alertRepo.MarkAllReadByClient(clientID)
}

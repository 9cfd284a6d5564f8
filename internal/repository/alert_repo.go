package repository

import (
	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(alert *model.PackageAlert) error {
	return r.db.Create(alert).Error
}

func (r *AlertRepository) GetByID(id int64) (*model.PackageAlert, error) {
	var alert model.PackageAlert
	err := r.db.Where("id = ?", id).First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

// ListPending 全部未读提醒（管理看板）
func (r *AlertRepository) ListPending() ([]*model.PackageAlert, error) {
	var alerts []*model.PackageAlert
	err := r.db.Where("is_read = ?", false).
		Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

// ListUnreadByClient 某客户的未读提醒
func (r *AlertRepository) ListUnreadByClient(clientID int64) ([]*model.PackageAlert, error) {
	var alerts []*model.PackageAlert
	err := r.db.Where("client_id = ? AND is_read = ?", clientID, false).
		Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

// MarkRead 单条标记已读
func (r *AlertRepository) MarkRead(id int64) error {
	return r.db.Model(&model.PackageAlert{}).Where("id = ?", id).
		Update("is_read", true).Error
}

// MarkAllReadByClient 按客户批量标记已读，返回更新行数
func (r *AlertRepository) MarkAllReadByClient(clientID int64) (int64, error) {
	result := r.db.Model(&model.PackageAlert{}).
		Where("client_id = ? AND is_read = ?", clientID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// CountDistinctClientsUnread 有未读提醒的客户数（去重）
func (r *AlertRepository) CountDistinctClientsUnread() (int64, error) {
	var count int64
	err := r.db.Model(&model.PackageAlert{}).
		Where("is_read = ?", false).
		Distinct("client_id").Count(&count).Error
	return count, err
}

// ExistsUnread 是否已有某套餐某类型的未读提醒（到期提醒去重用）
func (r *AlertRepository) ExistsUnread(packageID int64, alertType string) (bool, error) {
	var count int64
	err := r.db.Model(&model.PackageAlert{}).
		Where("package_id = ? AND alert_type = ? AND is_read = ?", packageID, alertType, false).
		Count(&count).Error
	return count > 0, err
}

// ListByPackage 某套餐的全部提醒记录
func (r *AlertRepository) ListByPackage(packageID int64) ([]*model.PackageAlert, error) {
	var alerts []*model.PackageAlert
	err := r.db.Where("package_id = ?", packageID).
		Order("created_at ASC").Find(&alerts).Error
	return alerts, err
}

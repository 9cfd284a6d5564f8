package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
)

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

func (r *PackageRepository) Create(pkg *model.ServicePackage) error {
	return r.db.Create(pkg).Error
}

func (r *PackageRepository) GetByID(id int64) (*model.ServicePackage, error) {
	var pkg model.ServicePackage
	err := r.db.Where("id = ?", id).First(&pkg).Error
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *PackageRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.ServicePackage{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 硬删除套餐。历史课时与提醒记录保留，作为消费凭证。
func (r *PackageRepository) Delete(id int64) error {
	return r.db.Delete(&model.ServicePackage{}, id).Error
}

func (r *PackageRepository) List(page, pageSize int, status string) ([]*model.ServicePackage, int64, error) {
	var pkgs []*model.ServicePackage
	var total int64

	query := r.db.Model(&model.ServicePackage{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&pkgs).Error
	return pkgs, total, err
}

func (r *PackageRepository) ListByClient(clientID int64) ([]*model.ServicePackage, error) {
	var pkgs []*model.ServicePackage
	err := r.db.Where("client_id = ?", clientID).
		Order("created_at DESC").Find(&pkgs).Error
	return pkgs, err
}

func (r *PackageRepository) ListActiveOrFinishingByClient(clientID int64) ([]*model.ServicePackage, error) {
	var pkgs []*model.ServicePackage
	err := r.db.Where("client_id = ? AND status IN ?", clientID,
		[]string{model.PackageActive, model.PackageFinishing}).
		Order("created_at DESC").Find(&pkgs).Error
	return pkgs, err
}

// ListWithAlertableStatus 管理看板视图：可消耗的套餐按剩余课时升序
func (r *PackageRepository) ListWithAlertableStatus() ([]*model.ServicePackage, error) {
	var pkgs []*model.ServicePackage
	err := r.db.Where("status IN ?", []string{model.PackageActive, model.PackageFinishing}).
		Order("remaining_sessions ASC").Find(&pkgs).Error
	return pkgs, err
}

// ListAllForRecompute 全量套餐，供定时状态重算遍历
func (r *PackageRepository) ListAllForRecompute() ([]*model.ServicePackage, error) {
	var pkgs []*model.ServicePackage
	err := r.db.Order("id ASC").Find(&pkgs).Error
	return pkgs, err
}

// ListExpiringBefore 查询将在 deadline 前到期、尚可消耗的套餐
func (r *PackageRepository) ListExpiringBefore(deadline time.Time) ([]*model.ServicePackage, error) {
	var pkgs []*model.ServicePackage
	err := r.db.Where("expiry_date IS NOT NULL AND expiry_date <= ?", deadline).
		Where("status IN ?", []string{model.PackageActive, model.PackageFinishing}).
		Find(&pkgs).Error
	return pkgs, err
}

// CountByStatus 按状态统计套餐数
func (r *PackageRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.ServicePackage{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// DecrementRemaining 条件扣减：仅当剩余课时大于 0 时 used+1/remaining-1。
// 返回是否扣减成功，两个并发调用只有一个能扣掉最后一次课时。
func (r *PackageRepository) DecrementRemaining(id int64) (bool, error) {
	result := r.db.Model(&model.ServicePackage{}).
		Where("id = ? AND remaining_sessions > 0", id).
		Updates(map[string]interface{}{
			"used_sessions":      gorm.Expr("used_sessions + 1"),
			"remaining_sessions": gorm.Expr("remaining_sessions - 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PackageRepository) CreateSession(session *model.PackageSession) error {
	return r.db.Create(session).Error
}

func (r *PackageRepository) ListSessions(packageID int64) ([]*model.PackageSession, error) {
	var sessions []*model.PackageSession
	err := r.db.Where("package_id = ?", packageID).
		Order("session_date ASC").Find(&sessions).Error
	return sessions, err
}

func (r *PackageRepository) CountSessions(packageID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.PackageSession{}).
		Where("package_id = ?", packageID).Count(&count).Error
	return count, err
}

package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(appt *model.Appointment) error {
	return r.db.Create(appt).Error
}

func (r *AppointmentRepository) GetByID(id int64) (*model.Appointment, error) {
	var appt model.Appointment
	err := r.db.Where("id = ?", id).First(&appt).Error
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *AppointmentRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Appointment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *AppointmentRepository) Delete(id int64) error {
	return r.db.Delete(&model.Appointment{}, id).Error
}

func (r *AppointmentRepository) List(page, pageSize int, status string) ([]*model.Appointment, int64, error) {
	var appts []*model.Appointment
	var total int64

	query := r.db.Model(&model.Appointment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("starts_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&appts).Error
	return appts, total, err
}

func (r *AppointmentRepository) ListByClient(clientID int64) ([]*model.Appointment, error) {
	var appts []*model.Appointment
	err := r.db.Where("client_id = ?", clientID).
		Order("starts_at DESC").Find(&appts).Error
	return appts, err
}

func (r *AppointmentRepository) ListByTeacher(teacherID int64) ([]*model.Appointment, error) {
	var appts []*model.Appointment
	err := r.db.Where("teacher_id = ?", teacherID).
		Order("starts_at DESC").Find(&appts).Error
	return appts, err
}

// ListByDay 查询某一天的全部预约（排课视图）
func (r *AppointmentRepository) ListByDay(day time.Time) ([]*model.Appointment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var appts []*model.Appointment
	err := r.db.Where("starts_at >= ? AND starts_at < ?", start, end).
		Order("starts_at ASC").Find(&appts).Error
	return appts, err
}

// HasOverlap 检查训导师在给定时段内是否已有未取消的预约
func (r *AppointmentRepository) HasOverlap(teacherID int64, startsAt, endsAt time.Time, excludeID int64) (bool, error) {
	var count int64
	query := r.db.Model(&model.Appointment{}).
		Where("teacher_id = ?", teacherID).
		Where("status = ?", model.AppointmentScheduled).
		Where("starts_at < ? AND ends_at > ?", endsAt, startsAt)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

package repository

import (
	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(svc *model.TrainingService) error {
	return r.db.Create(svc).Error
}

func (r *ServiceRepository) GetByID(id int64) (*model.TrainingService, error) {
	var svc model.TrainingService
	err := r.db.Where("id = ?", id).First(&svc).Error
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *ServiceRepository) List(activeOnly bool) ([]*model.TrainingService, error) {
	var services []*model.TrainingService
	query := r.db.Model(&model.TrainingService{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("name ASC").Find(&services).Error
	return services, err
}

func (r *ServiceRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.TrainingService{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ServiceRepository) Delete(id int64) error {
	return r.db.Delete(&model.TrainingService{}, id).Error
}

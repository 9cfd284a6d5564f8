package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/repository"
)

var ErrServiceNotFound = errors.New("服务项目不存在")

// CatalogService 训练服务项目管理
type CatalogService struct {
	serviceRepo *repository.ServiceRepository
}

func NewCatalogService(serviceRepo *repository.ServiceRepository) *CatalogService {
	return &CatalogService{serviceRepo: serviceRepo}
}

func (s *CatalogService) Create(req *dto.CreateServiceRequest) (*model.TrainingService, error) {
	svc := &model.TrainingService{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          true,
	}
	if svc.DurationMinutes == 0 {
		svc.DurationMinutes = 60
	}

	if err := s.serviceRepo.Create(svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) Get(id int64) (*model.TrainingService, error) {
	svc, err := s.serviceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) List(activeOnly bool) ([]*model.TrainingService, error) {
	return s.serviceRepo.List(activeOnly)
}

func (s *CatalogService) Update(id int64, req *dto.UpdateServiceRequest) (*model.TrainingService, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.DurationMinutes != nil {
		fields["duration_minutes"] = *req.DurationMinutes
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}

	if len(fields) > 0 {
		if err := s.serviceRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	return s.serviceRepo.GetByID(id)
}

func (s *CatalogService) Delete(id int64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.serviceRepo.Delete(id)
}

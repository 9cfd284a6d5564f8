package service

import (
	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/repository"
)

type DashboardService struct {
	packageRepo *repository.PackageRepository
	alertRepo   *repository.AlertRepository
}

func NewDashboardService(packageRepo *repository.PackageRepository, alertRepo *repository.AlertRepository) *DashboardService {
	return &DashboardService{
		packageRepo: packageRepo,
		alertRepo:   alertRepo,
	}
}

// Metrics 套餐看板指标，每次请求实时统计
func (s *DashboardService) Metrics() (*dto.DashboardMetrics, error) {
	metrics := &dto.DashboardMetrics{}

	counts := []struct {
		status string
		dest   *int64
	}{
		{model.PackageActive, &metrics.ActivePackages},
		{model.PackageFinishing, &metrics.FinishingPackages},
		{model.PackageCompleted, &metrics.CompletedPackages},
		{model.PackageExpired, &metrics.ExpiredPackages},
	}
	for _, c := range counts {
		count, err := s.packageRepo.CountByStatus(c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = count
	}

	clients, err := s.alertRepo.CountDistinctClientsUnread()
	if err != nil {
		return nil, err
	}
	metrics.ClientsWithUnreadAlert = clients

	return metrics, nil
}

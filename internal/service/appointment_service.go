package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/repository"
)

var (
	ErrAppointmentNotFound = errors.New("预约不存在")
	ErrInvalidTimeRange    = errors.New("预约时间区间无效")
	ErrTeacherNotFound     = errors.New("训导师不存在")
	ErrTeacherConflict     = errors.New("训导师该时段已有预约")
	ErrAppointmentFinished = errors.New("预约已结束，不可修改")
)

type AppointmentService struct {
	apptRepo   *repository.AppointmentRepository
	clientRepo *repository.ClientRepository
	userRepo   *repository.UserRepository
	packageSvc *PackageService
}

func NewAppointmentService(
	apptRepo *repository.AppointmentRepository,
	clientRepo *repository.ClientRepository,
	userRepo *repository.UserRepository,
	packageSvc *PackageService,
) *AppointmentService {
	return &AppointmentService{
		apptRepo:   apptRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
		packageSvc: packageSvc,
	}
}

// Create 创建预约，校验客户、训导师及时段冲突
func (s *AppointmentService) Create(req *dto.CreateAppointmentRequest) (*model.Appointment, error) {
	if _, err := s.clientRepo.GetByID(req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	teacher, err := s.userRepo.GetByID(req.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	if teacher.Role != model.RoleTeacher && teacher.Role != model.RoleAdmin {
		return nil, ErrTeacherNotFound
	}

	startsAt, endsAt, err := parseTimeRange(req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}

	conflict, err := s.apptRepo.HasOverlap(req.TeacherID, startsAt, endsAt, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrTeacherConflict
	}

	appt := &model.Appointment{
		ClientID:  req.ClientID,
		DogID:     req.DogID,
		ServiceID: req.ServiceID,
		TeacherID: req.TeacherID,
		PackageID: req.PackageID,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Status:    model.AppointmentScheduled,
		Notes:     req.Notes,
	}
	if err := s.apptRepo.Create(appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *AppointmentService) Get(id int64) (*model.Appointment, error) {
	appt, err := s.apptRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return appt, nil
}

func (s *AppointmentService) Update(id int64, req *dto.UpdateAppointmentRequest) (*model.Appointment, error) {
	appt, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if appt.Status != model.AppointmentScheduled {
		return nil, ErrAppointmentFinished
	}

	fields := map[string]interface{}{}
	if req.DogID != nil {
		fields["dog_id"] = *req.DogID
	}
	if req.ServiceID != nil {
		fields["service_id"] = *req.ServiceID
	}
	if req.PackageID != nil {
		fields["package_id"] = *req.PackageID
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	teacherID := appt.TeacherID
	if req.TeacherID != nil {
		teacherID = *req.TeacherID
		fields["teacher_id"] = teacherID
	}

	startsAt, endsAt := appt.StartsAt, appt.EndsAt
	if req.StartsAt != nil || req.EndsAt != nil {
		startsStr := appt.StartsAt.Format(time.RFC3339)
		endsStr := appt.EndsAt.Format(time.RFC3339)
		if req.StartsAt != nil {
			startsStr = *req.StartsAt
		}
		if req.EndsAt != nil {
			endsStr = *req.EndsAt
		}
		startsAt, endsAt, err = parseTimeRange(startsStr, endsStr)
		if err != nil {
			return nil, err
		}
		fields["starts_at"] = startsAt
		fields["ends_at"] = endsAt
	}

	if req.TeacherID != nil || req.StartsAt != nil || req.EndsAt != nil {
		conflict, err := s.apptRepo.HasOverlap(teacherID, startsAt, endsAt, id)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrTeacherConflict
		}
	}

	if len(fields) > 0 {
		if err := s.apptRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	return s.apptRepo.GetByID(id)
}

// UpdateStatus 状态流转。完成关联了套餐的预约时自动扣减一次课时。
func (s *AppointmentService) UpdateStatus(id, operatorID int64, req *dto.UpdateAppointmentStatusRequest) (*model.Appointment, error) {
	appt, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"status": req.Status}
	if req.Notes != "" {
		fields["notes"] = req.Notes
	}
	if err := s.apptRepo.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	if req.Status == model.AppointmentCompleted &&
		appt.Status != model.AppointmentCompleted &&
		appt.PackageID != nil {
		_, err := s.packageSvc.Consume(*appt.PackageID, operatorID, &dto.ConsumeSessionRequest{
			SessionDate:   appt.StartsAt.Format(time.RFC3339),
			SessionType:   "appointment",
			AppointmentID: &appt.ID,
		})
		// 套餐扣减失败不回滚预约状态，由调用方看到错误后处理
		if err != nil {
			return nil, err
		}
	}

	return s.apptRepo.GetByID(id)
}

func (s *AppointmentService) Delete(id int64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.apptRepo.Delete(id)
}

func (s *AppointmentService) List(page, pageSize int, status string) ([]*model.Appointment, int64, error) {
	return s.apptRepo.List(page, pageSize, status)
}

func (s *AppointmentService) ListByClient(clientID int64) ([]*model.Appointment, error) {
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return s.apptRepo.ListByClient(clientID)
}

func (s *AppointmentService) ListByTeacher(teacherID int64) ([]*model.Appointment, error) {
	return s.apptRepo.ListByTeacher(teacherID)
}

func (s *AppointmentService) ListByDay(day time.Time) ([]*model.Appointment, error) {
	return s.apptRepo.ListByDay(day)
}

func parseTimeRange(startsStr, endsStr string) (time.Time, time.Time, error) {
	startsAt, err := time.Parse(time.RFC3339, startsStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidTimeRange
	}
	endsAt, err := time.Parse(time.RFC3339, endsStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidTimeRange
	}
	if !endsAt.After(startsAt) {
		return time.Time{}, time.Time{}, ErrInvalidTimeRange
	}
	return startsAt, endsAt, nil
}

package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
	"github.com/dogacademy/academy_go_server/internal/model/dto"
	"github.com/dogacademy/academy_go_server/internal/pkg/oss"
	"github.com/dogacademy/academy_go_server/internal/repository"
)

var (
	ErrClientNotFound     = errors.New("客户不存在")
	ErrDogNotFound        = errors.New("犬只不存在")
	ErrInvalidBirthDate   = errors.New("出生日期格式无效")
	ErrDogNotOwnedByOwner = errors.New("犬只不属于该客户")
)

type ClientService struct {
	clientRepo *repository.ClientRepository
	dogRepo    *repository.DogRepository
	ossClient  *oss.Client // 可为空，为空时不支持照片上传
}

func NewClientService(clientRepo *repository.ClientRepository, dogRepo *repository.DogRepository, ossClient *oss.Client) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		dogRepo:    dogRepo,
		ossClient:  ossClient,
	}
}

func (s *ClientService) Create(req *dto.CreateClientRequest) (*model.Client, error) {
	client := &model.Client{
		FullName: req.FullName,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Notes:    req.Notes,
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Get(id int64) (*model.Client, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// GetByUserID 按门户账号查客户档案（客户端自助访问入口）
func (s *ClientService) GetByUserID(userID int64) (*model.Client, error) {
	client, err := s.clientRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Update(id int64, req *dto.UpdateClientRequest) (*model.Client, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) > 0 {
		if err := s.clientRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	return s.clientRepo.GetByID(id)
}

func (s *ClientService) Delete(id int64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.clientRepo.Delete(id)
}

func (s *ClientService) List(page, pageSize int, search string) ([]*model.Client, int64, error) {
	return s.clientRepo.List(page, pageSize, search)
}

func (s *ClientService) CreateDog(clientID int64, req *dto.CreateDogRequest) (*model.Dog, error) {
	if _, err := s.Get(clientID); err != nil {
		return nil, err
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, ErrInvalidBirthDate
		}
		birthDate = &parsed
	}

	dog := &model.Dog{
		ClientID:  clientID,
		Name:      req.Name,
		Breed:     req.Breed,
		BirthDate: birthDate,
		Notes:     req.Notes,
	}
	if err := s.dogRepo.Create(dog); err != nil {
		return nil, err
	}
	return dog, nil
}

func (s *ClientService) GetDog(id int64) (*model.Dog, error) {
	dog, err := s.dogRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDogNotFound
		}
		return nil, err
	}
	return dog, nil
}

func (s *ClientService) ListDogs(clientID int64) ([]*model.Dog, error) {
	if _, err := s.Get(clientID); err != nil {
		return nil, err
	}
	return s.dogRepo.ListByClient(clientID)
}

func (s *ClientService) UpdateDog(id int64, req *dto.UpdateDogRequest) (*model.Dog, error) {
	if _, err := s.GetDog(id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Breed != nil {
		fields["breed"] = *req.Breed
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			fields["birth_date"] = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				return nil, ErrInvalidBirthDate
			}
			fields["birth_date"] = parsed
		}
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) > 0 {
		if err := s.dogRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	return s.dogRepo.GetByID(id)
}

func (s *ClientService) DeleteDog(id int64) error {
	if _, err := s.GetDog(id); err != nil {
		return err
	}
	return s.dogRepo.Delete(id)
}

// UploadDogPhoto 上传犬只照片到 OSS 并回写照片地址
func (s *ClientService) UploadDogPhoto(dogID int64, data []byte, ext string) (string, error) {
	if s.ossClient == nil {
		return "", errors.New("对象存储未配置")
	}

	dog, err := s.GetDog(dogID)
	if err != nil {
		return "", err
	}

	// 覆盖上传前清理旧照片，失败不阻断
	if dog.PhotoURL != "" {
		if key := s.ossClient.ExtractObjectKey(dog.PhotoURL); key != "" {
			_ = s.ossClient.Delete(key)
		}
	}

	url, err := s.ossClient.UploadDogPhoto(dogID, data, ext)
	if err != nil {
		return "", err
	}

	if err := s.dogRepo.UpdateFields(dogID, map[string]interface{}{"photo_url": url}); err != nil {
		return "", err
	}

	return url, nil
}

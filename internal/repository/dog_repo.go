package repository

import (
	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
)

type DogRepository struct {
	db *gorm.DB
}

func NewDogRepository(db *gorm.DB) *DogRepository {
	return &DogRepository{db: db}
}

func (r *DogRepository) Create(dog *model.Dog) error {
	return r.db.Create(dog).Error
}

func (r *DogRepository) GetByID(id int64) (*model.Dog, error) {
	var dog model.Dog
	err := r.db.Where("id = ?", id).First(&dog).Error
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

func (r *DogRepository) ListByClient(clientID int64) ([]*model.Dog, error) {
	var dogs []*model.Dog
	err := r.db.Where("client_id = ?", clientID).
		Order("created_at ASC").Find(&dogs).Error
	return dogs, err
}

func (r *DogRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Dog{}).Where("id = ?", id).Updates(fields).Error
}

func (r *DogRepository) Delete(id int64) error {
	return r.db.Delete(&model.Dog{}, id).Error
}

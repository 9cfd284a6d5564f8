package repository

import (
	"gorm.io/gorm"

	"github.com/dogacademy/academy_go_server/internal/model"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(client *model.Client) error {
	return r.db.Create(client).Error
}

func (r *ClientRepository) GetByID(id int64) (*model.Client, error) {
	var client model.Client
	err := r.db.Where("id = ?", id).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) GetByUserID(userID int64) (*model.Client, error) {
	var client model.Client
	err := r.db.Where("user_id = ?", userID).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Client{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ClientRepository) Delete(id int64) error {
	return r.db.Delete(&model.Client{}, id).Error
}

// List 分页查询客户，支持按姓名/电话模糊搜索
func (r *ClientRepository) List(page, pageSize int, search string) ([]*model.Client, int64, error) {
	var clients []*model.Client
	var total int64

	query := r.db.Model(&model.Client{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("full_name LIKE ? OR phone LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&clients).Error
	return clients, total, err
}

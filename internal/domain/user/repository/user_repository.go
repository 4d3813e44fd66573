package repository

import (
	"eyewear_admin/internal/domain/user/model"

	"gorm.io/gorm"
)

// UserRepository 接口定义
type UserRepository interface {
	GetByID(id string) (*model.User, error)
	GetByPhone(phone string) (*model.User, error)
	ListActive() ([]model.User, error)
}

// userRepository 实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(id string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByPhone 根据手机号获取用户
func (r *userRepository) GetByPhone(phone string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActive 所有未注销用户，按姓名排序
func (r *userRepository) ListActive() ([]model.User, error) {
	var users []model.User
	err := r.db.Where("status <> ?", model.StatusDeleted).
		Order("first_name, last_name").
		Find(&users).Error
	return users, err
}

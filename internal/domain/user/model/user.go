package model

import (
	baseModel "eyewear_admin/pkg/model"
)

// 角色
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// 状态
const (
	StatusNormal  = 0
	StatusBanned  = 1
	StatusDeleted = 2
)

// User 用户模型
// 用户端注册的顾客与后台管理员共用一张表，按 Role 区分
type User struct {
	baseModel.BaseModel
	FirstName string `gorm:"type:varchar(100)" json:"firstName"`
	LastName  string `gorm:"type:varchar(100)" json:"lastName"`
	Phone     string `gorm:"type:varchar(20);uniqueIndex" json:"phone"`
	Role      int    `gorm:"default:0" json:"-"`
	Status    int    `gorm:"default:0" json:"-"`
}

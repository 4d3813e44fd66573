package repository

import (
	"eyewear_admin/internal/domain/coupon/model"
	"strings"

	"gorm.io/gorm"
)

// CouponRepository 接口定义
type CouponRepository interface {
	Create(coupon *model.Coupon) error
	GetByID(id string) (*model.Coupon, error)
	GetList(offset, limit int, search string) ([]model.Coupon, int64, error)
	ExistsByCode(code, excludeID string) (bool, error)
	Update(coupon *model.Coupon) error
	Delete(id string) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(coupon *model.Coupon) error {
	return r.db.Create(coupon).Error
}

// GetByID 同时加载核销记录及对应用户
func (r *couponRepository) GetByID(id string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.Preload("UsedBy", func(db *gorm.DB) *gorm.DB {
		return db.Order("used_at DESC")
	}).Preload("UsedBy.User").
		Where("id = ?", id).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// likeEscaper 转义 LIKE 通配符，Postgres 默认以反斜杠为转义符
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// GetList 分页列表，search 匹配券码或描述
func (r *couponRepository) GetList(offset, limit int, search string) ([]model.Coupon, int64, error) {
	var coupons []model.Coupon
	var total int64

	query := r.db.Model(&model.Coupon{})
	if search != "" {
		like := "%" + likeEscaper.Replace(search) + "%"
		query = query.Where("code ILIKE ? OR description ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Coupon{}, 0, nil
	}

	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&coupons).Error
	return coupons, total, err
}

// ExistsByCode 券码是否已被其他优惠券占用
func (r *couponRepository) ExistsByCode(code, excludeID string) (bool, error) {
	var count int64
	query := r.db.Model(&model.Coupon{}).Where("code = ?", code)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Update 只更新可编辑字段，usage_count 由核销服务维护
func (r *couponRepository) Update(coupon *model.Coupon) error {
	result := r.db.Model(&model.Coupon{}).
		Where("id = ?", coupon.ID).
		Select("code", "description", "discount_type", "discount_value",
			"expiry_date", "is_public", "assigned_users", "max_usage", "updated_at").
		Updates(coupon)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 软删除
func (r *couponRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.Coupon{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package model

import (
	"encoding/json"
	userModel "eyewear_admin/internal/domain/user/model"
	baseModel "eyewear_admin/pkg/model"
	"time"

	"github.com/lib/pq"
)

// 折扣类型
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon 优惠券定义
type Coupon struct {
	baseModel.BaseModel
	Code          string         `gorm:"type:varchar(64);uniqueIndex:idx_coupons_code,where:deleted_at IS NULL;not null" json:"code"`
	Description   string         `gorm:"type:text" json:"description"`
	DiscountType  string         `gorm:"type:varchar(16);not null" json:"discountType"`
	DiscountValue float64        `gorm:"not null" json:"discountValue"`
	ExpiryDate    time.Time      `gorm:"not null" json:"expiryDate"`
	IsPublic      bool           `gorm:"not null;default:false" json:"isPublic"`
	AssignedUsers pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"assignedUsers"`
	MaxUsage      int            `gorm:"not null" json:"maxUsage"`
	// UsageCount 由核销服务维护，后台只读
	UsageCount int          `gorm:"not null;default:0" json:"usageCount"`
	UsedBy     []Redemption `gorm:"foreignKey:CouponID" json:"usedBy"`
}

// Redemption 核销记录
type Redemption struct {
	ID       uint           `gorm:"primaryKey" json:"-"`
	CouponID string         `gorm:"type:uuid;index;not null" json:"-"`
	UserID   string         `gorm:"type:uuid;index;not null" json:"-"`
	User     userModel.User `gorm:"foreignKey:UserID" json:"-"`
	UsedAt   time.Time      `gorm:"not null" json:"usedAt"`
}

func (Redemption) TableName() string {
	return "coupon_redemptions"
}

// RedemptionView 对外展示的核销记录，用户字段平铺
type RedemptionView struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	UsedAt    time.Time `json:"usedAt"`
}

// View 平铺后的核销记录
func (r Redemption) View() RedemptionView {
	return RedemptionView{
		ID:        r.UserID,
		FirstName: r.User.FirstName,
		LastName:  r.User.LastName,
		Phone:     r.User.Phone,
		UsedAt:    r.UsedAt,
	}
}

// MarshalJSON 输出平铺结构
func (r Redemption) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.View())
}

// UnmarshalJSON 从缓存中还原
func (r *Redemption) UnmarshalJSON(data []byte) error {
	var v RedemptionView
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.UserID = v.ID
	r.User.ID = v.ID
	r.User.FirstName = v.FirstName
	r.User.LastName = v.LastName
	r.User.Phone = v.Phone
	r.UsedAt = v.UsedAt
	return nil
}

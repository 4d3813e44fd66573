package coupon

import "time"

// DiscountType 折扣类型
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// User 可分配优惠券的用户（只读）
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// FullName 展示用姓名
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// Redemption 一次核销记录，由服务端维护
type Redemption struct {
	User
	UsedAt time.Time `json:"usedAt"`
}

// Coupon 服务端返回的完整优惠券记录
type Coupon struct {
	ID            string       `json:"id"`
	Code          string       `json:"code"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
	ExpiryDate    time.Time    `json:"expiryDate"`
	IsPublic      bool         `json:"isPublic"`
	AssignedUsers []string     `json:"assignedUsers"`
	MaxUsage      int          `json:"maxUsage"`
	UsageCount    int          `json:"usageCount"`
	UsedBy        []Redemption `json:"usedBy"`
}

// Remaining 剩余可用次数，不会小于 0
func (c Coupon) Remaining() int {
	if c.UsageCount >= c.MaxUsage {
		return 0
	}
	return c.MaxUsage - c.UsageCount
}

// Expired 判断在 now 时刻是否已过期
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiryDate.Before(now)
}

// Draft 表单中尚未保存的优惠券
// 指针字段用于区分"未填写"与零值
type Draft struct {
	Code          string
	Description   string
	DiscountType  DiscountType
	DiscountValue *float64
	ExpiryDate    *time.Time
	IsPublic      bool
	AssignedUsers []string
	MaxUsage      *int
}

// Payload 提交给服务端的请求体
type Payload struct {
	ID            string       `json:"id,omitempty"`
	Code          string       `json:"code"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
	ExpiryDate    time.Time    `json:"expiryDate"`
	IsPublic      bool         `json:"isPublic"`
	AssignedUsers []string     `json:"assignedUsers"`
	MaxUsage      int          `json:"maxUsage"`
}

// PayloadFromDraft 构建请求体
// 公开券在这里清空 assignedUsers，表单中的选择状态保持不变
func PayloadFromDraft(d Draft) Payload {
	p := Payload{
		Code:          d.Code,
		Description:   d.Description,
		DiscountType:  d.DiscountType,
		IsPublic:      d.IsPublic,
		AssignedUsers: []string{},
	}
	if d.DiscountValue != nil {
		p.DiscountValue = *d.DiscountValue
	}
	if d.ExpiryDate != nil {
		p.ExpiryDate = *d.ExpiryDate
	}
	if d.MaxUsage != nil {
		p.MaxUsage = *d.MaxUsage
	}
	if !d.IsPublic && len(d.AssignedUsers) > 0 {
		p.AssignedUsers = append(p.AssignedUsers, d.AssignedUsers...)
	}
	return p
}

// DraftFromCoupon 编辑表单回填
func DraftFromCoupon(c Coupon) Draft {
	value := c.DiscountValue
	expiry := c.ExpiryDate
	maxUsage := c.MaxUsage
	assigned := make([]string, len(c.AssignedUsers))
	copy(assigned, c.AssignedUsers)

	return Draft{
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  c.DiscountType,
		DiscountValue: &value,
		ExpiryDate:    &expiry,
		IsPublic:      c.IsPublic,
		AssignedUsers: assigned,
		MaxUsage:      &maxUsage,
	}
}

// Editable 提取记录中可编辑的字段，用于比较
func (c Coupon) Editable() Payload {
	return PayloadFromDraft(DraftFromCoupon(c))
}

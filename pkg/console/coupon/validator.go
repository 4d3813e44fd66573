package coupon

import (
	"strings"
	"time"
)

// 字段名，与请求体 JSON 字段保持一致
const (
	FieldCode          = "code"
	FieldDiscountValue = "discountValue"
	FieldExpiryDate    = "expiryDate"
	FieldAssignedUsers = "assignedUsers"
	FieldMaxUsage      = "maxUsage"
)

// 错误文案 key，由前端做多语言翻译
const (
	MsgRequired                = "required"
	MsgDiscountPercentageError = "discount_percentage_error"
	MsgExpiryDateError         = "expiry_date_error"
	MsgSelectAtLeastOneUser    = "select_at_least_one_user"
)

// MaxPercentage 百分比折扣上限
const MaxPercentage = 100

// Validate 校验草稿，返回 字段 -> 错误 key
// 所有规则独立执行，不会短路；空 map 表示可以提交
func Validate(d Draft, now time.Time) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(d.Code) == "" {
		errs[FieldCode] = MsgRequired
	}

	if d.DiscountValue == nil {
		errs[FieldDiscountValue] = MsgRequired
	} else if d.DiscountType == DiscountPercentage && *d.DiscountValue > MaxPercentage {
		errs[FieldDiscountValue] = MsgDiscountPercentageError
	}

	if d.ExpiryDate == nil {
		errs[FieldExpiryDate] = MsgRequired
	} else if d.ExpiryDate.Before(now) {
		errs[FieldExpiryDate] = MsgExpiryDateError
	}

	if !d.IsPublic && len(d.AssignedUsers) == 0 {
		errs[FieldAssignedUsers] = MsgSelectAtLeastOneUser
	}

	// 0 与未填写一样按 required 处理
	if d.MaxUsage == nil || *d.MaxUsage == 0 {
		errs[FieldMaxUsage] = MsgRequired
	}

	return errs
}

package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPayloadFromDraft(t *testing.T) {
	t.Run("Public draft strips assigned users", func(t *testing.T) {
		d := validDraft()
		d.AssignedUsers = []string{"u1", "u2"}

		p := PayloadFromDraft(d)

		assert.Empty(t, p.AssignedUsers)
		assert.NotNil(t, p.AssignedUsers)
		// 表单中的选择保留，切回私有时还能用
		assert.Equal(t, []string{"u1", "u2"}, d.AssignedUsers)
	})

	t.Run("Private draft keeps assigned users", func(t *testing.T) {
		d := validDraft()
		d.IsPublic = false
		d.AssignedUsers = []string{"u1"}

		p := PayloadFromDraft(d)

		assert.Equal(t, []string{"u1"}, p.AssignedUsers)
		assert.Equal(t, "SAVE10", p.Code)
		assert.Equal(t, 10.0, p.DiscountValue)
		assert.Equal(t, 100, p.MaxUsage)
	})
}

func TestDraftFromCouponRoundTrip(t *testing.T) {
	original := Coupon{
		ID:            "c1",
		Code:          "VIP50",
		Description:   "half price frames",
		DiscountType:  DiscountFixed,
		DiscountValue: 50,
		ExpiryDate:    time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		IsPublic:      false,
		AssignedUsers: []string{"u1", "u2"},
		MaxUsage:      3,
		UsageCount:    1,
		UsedBy:        []Redemption{{User: User{ID: "u1"}}},
	}

	p := PayloadFromDraft(DraftFromCoupon(original))

	assert.Equal(t, Payload{
		Code:          "VIP50",
		Description:   "half price frames",
		DiscountType:  DiscountFixed,
		DiscountValue: 50,
		ExpiryDate:    original.ExpiryDate,
		IsPublic:      false,
		AssignedUsers: []string{"u1", "u2"},
		MaxUsage:      3,
	}, p)
	assert.Equal(t, original.Editable(), p)
}

func TestCouponHelpers(t *testing.T) {
	c := Coupon{MaxUsage: 5, UsageCount: 7, ExpiryDate: now.Add(-time.Minute)}
	assert.Equal(t, 0, c.Remaining())
	assert.True(t, c.Expired(now))

	c.UsageCount = 2
	assert.Equal(t, 3, c.Remaining())

	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", User{FirstName: "Ada"}.FullName())
}

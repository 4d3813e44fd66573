package service

import (
	"context"
	"errors"
	"eyewear_admin/internal/domain/coupon/model"
	"eyewear_admin/internal/domain/coupon/repository"
	"eyewear_admin/internal/pkg/event"
	"eyewear_admin/pkg/cache"
	rules "eyewear_admin/pkg/console/coupon"
	"eyewear_admin/pkg/utils"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound = errors.New("coupon not found")
	ErrCodeExists     = errors.New("coupon code already exists")
)

// InvalidError 字段校验失败
type InvalidError struct {
	Fields map[string]string
}

func (e *InvalidError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid coupon: " + strings.Join(keys, ", ")
}

// 列表缓存
// usage_count 由核销服务更新，这里收不到变更通知，只做短时缓存；
// 详情包含核销记录，不缓存
const (
	CouponListCachePrefix = "coupon_list:"
	CouponListCacheTTL    = time.Second * 30
)

// CouponInput 创建 / 更新请求体
type CouponInput struct {
	Code          string     `json:"code"`
	Description   string     `json:"description"`
	DiscountType  string     `json:"discountType" binding:"required,oneof=percentage fixed"`
	DiscountValue *float64   `json:"discountValue" binding:"omitempty,gte=0"`
	ExpiryDate    *time.Time `json:"expiryDate"`
	IsPublic      bool       `json:"isPublic"`
	AssignedUsers []string   `json:"assignedUsers" binding:"omitempty,dive,required"`
	MaxUsage      *int       `json:"maxUsage" binding:"omitempty,gte=0"`
}

// Draft 转换为表单草稿，复用前端同一套校验规则
func (in CouponInput) Draft() rules.Draft {
	return rules.Draft{
		Code:          in.Code,
		Description:   in.Description,
		DiscountType:  rules.DiscountType(in.DiscountType),
		DiscountValue: in.DiscountValue,
		ExpiryDate:    in.ExpiryDate,
		IsPublic:      in.IsPublic,
		AssignedUsers: in.AssignedUsers,
		MaxUsage:      in.MaxUsage,
	}
}

// ListResult 分页结果
type ListResult struct {
	Coupons    []model.Coupon `json:"coupons"`
	TotalPages int            `json:"totalPages"`
	TotalItems int64          `json:"totalItems"`
}

// CouponService 优惠券管理
type CouponService interface {
	List(ctx context.Context, p utils.Pagination) (*ListResult, error)
	GetByID(ctx context.Context, id string) (*model.Coupon, error)
	Create(ctx context.Context, in CouponInput) (*model.Coupon, error)
	Update(ctx context.Context, id string, in CouponInput) error
	Delete(ctx context.Context, id string) error
}

type couponService struct {
	repo      repository.CouponRepository
	cache     cache.CacheService
	publisher event.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewCouponService(repo repository.CouponRepository, cache cache.CacheService, publisher event.Publisher, log *zap.Logger) CouponService {
	return &couponService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func listKey(p utils.Pagination) string {
	return fmt.Sprintf("%s%d:%d:%s", CouponListCachePrefix, p.Page, p.Limit, strings.ToLower(p.Search))
}

func (s *couponService) List(ctx context.Context, p utils.Pagination) (*ListResult, error) {
	offset, limit := p.GetPageOffset()
	key := listKey(p)

	var result ListResult
	if err := s.cache.Get(ctx, key, &result); err == nil {
		return &result, nil
	}

	coupons, total, err := s.repo.GetList(offset, limit, p.Search)
	if err != nil {
		return nil, err
	}
	if coupons == nil {
		coupons = []model.Coupon{}
	}

	result = ListResult{
		Coupons:    coupons,
		TotalPages: utils.TotalPages(total, limit),
		TotalItems: total,
	}
	if err := s.cache.Set(ctx, key, result, CouponListCacheTTL); err != nil {
		s.log.Warn("failed to cache coupon list", zap.Error(err))
	}
	return &result, nil
}

func (s *couponService) GetByID(ctx context.Context, id string) (*model.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return coupon, nil
}

// validate 失败时返回 *InvalidError
func (s *couponService) validate(in CouponInput) error {
	if fields := rules.Validate(in.Draft(), s.now()); len(fields) > 0 {
		return &InvalidError{Fields: fields}
	}
	return nil
}

// apply 将请求体写入模型，公开券不保留指定用户
func apply(dst *model.Coupon, in CouponInput) error {
	if err := copier.Copy(dst, &in); err != nil {
		return err
	}
	dst.Code = strings.TrimSpace(in.Code)
	dst.AssignedUsers = pq.StringArray{}
	if !in.IsPublic {
		dst.AssignedUsers = append(dst.AssignedUsers, in.AssignedUsers...)
	}
	return nil
}

func (s *couponService) Create(ctx context.Context, in CouponInput) (*model.Coupon, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(strings.TrimSpace(in.Code), "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCodeExists
	}

	var coupon model.Coupon
	if err := apply(&coupon, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(&coupon); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodeExists
		}
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, event.CouponCreated, coupon.ID, &coupon)
	return &coupon, nil
}

func (s *couponService) Update(ctx context.Context, id string, in CouponInput) error {
	if err := s.validate(in); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}

	exists, err := s.repo.ExistsByCode(strings.TrimSpace(in.Code), id)
	if err != nil {
		return err
	}
	if exists {
		return ErrCodeExists
	}

	if err := apply(existing, in); err != nil {
		return err
	}
	if err := s.repo.Update(existing); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrCouponNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return ErrCodeExists
		}
		return err
	}

	s.invalidate(ctx)
	s.publish(ctx, event.CouponUpdated, id, existing)
	return nil
}

func (s *couponService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}

	s.invalidate(ctx)
	s.publish(ctx, event.CouponDeleted, id, nil)
	return nil
}

// invalidate 缓存失败不影响业务逻辑，只记录日志
func (s *couponService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidatePattern(ctx, CouponListCachePrefix+"*"); err != nil {
		s.log.Warn("failed to invalidate coupon list cache", zap.Error(err))
	}
}

func (s *couponService) publish(ctx context.Context, typ, id string, payload interface{}) {
	e := event.Event{
		Type:       typ,
		ID:         id,
		OperatorID: event.OperatorFrom(ctx),
		OccurredAt: s.now(),
		Payload:    payload,
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("failed to publish coupon event", zap.String("type", typ), zap.String("id", id), zap.Error(err))
	}
}

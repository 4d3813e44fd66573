package service

import (
	"context"
	"errors"
	"eyewear_admin/internal/domain/user/model"
	"eyewear_admin/pkg/cache"
	"time"

	"go.uber.org/zap"
)

// 缓存键常量
const (
	RosterCacheKey = "user_roster"
	RosterCacheTTL = time.Minute * 5
)

// CachedUserService 带缓存的用户服务
// 每次打开优惠券表单都会拉取用户列表，这里缓存一份
type CachedUserService struct {
	UserService
	cache cache.CacheService
	log   *zap.Logger
}

// NewCachedUserService 创建带缓存的用户服务
func NewCachedUserService(inner UserService, cache cache.CacheService, log *zap.Logger) UserService {
	return &CachedUserService{
		UserService: inner,
		cache:       cache,
		log:         log,
	}
}

// GetRoster 获取用户列表（带缓存）
func (s *CachedUserService) GetRoster(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.cache.Get(ctx, RosterCacheKey, &users)
	if err == nil {
		return users, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("roster cache read failed", zap.Error(err))
	}

	// 缓存未命中，从数据库获取
	users, err = s.UserService.GetRoster(ctx)
	if err != nil {
		return nil, err
	}

	// 缓存失败不影响业务逻辑，只记录日志
	if err := s.cache.Set(ctx, RosterCacheKey, users, RosterCacheTTL); err != nil {
		s.log.Warn("failed to cache user roster", zap.Error(err))
	}
	return users, nil
}

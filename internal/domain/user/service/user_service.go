package service

import (
	"context"
	"errors"
	"eyewear_admin/internal/domain/user/model"
	"eyewear_admin/internal/domain/user/repository"
	"eyewear_admin/internal/pkg/otp"
	"eyewear_admin/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrInvalidCode    = errors.New("invalid verification code")
	ErrUserNotFound   = errors.New("user not found")
	ErrAccountBanned  = errors.New("account is banned")
	ErrAccountDeleted = errors.New("account has been deleted")
)

// UserService 用户服务接口
type UserService interface {
	Login(ctx context.Context, mobile, code string) (string, error)
	SendOTP(ctx context.Context, mobile string) error
	GetRoster(ctx context.Context) ([]model.User, error)
}

// userService 实现
type userService struct {
	repo repository.UserRepository
	otp  otp.OTPService
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, otp otp.OTPService) UserService {
	return &userService{repo: repo, otp: otp}
}

// Login 验证码登录，仅限已存在的账号，后台不做自动注册
func (s *userService) Login(ctx context.Context, mobile, code string) (string, error) {
	// 1. 验证验证码
	if !s.otp.Verify(ctx, mobile, code) {
		return "", ErrInvalidCode
	}

	// 2. 查询用户
	user, err := s.repo.GetByPhone(mobile)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	// 3. 检查用户状态
	switch user.Status {
	case model.StatusBanned:
		return "", ErrAccountBanned
	case model.StatusDeleted:
		return "", ErrAccountDeleted
	}

	// 4. 生成 Token
	token, _, err := utils.GenerateToken(user.ID, user.Role)
	return token, err
}

func (s *userService) SendOTP(ctx context.Context, mobile string) error {
	_, err := s.otp.Send(ctx, mobile)
	return err
}

// GetRoster 可分配优惠券的用户列表
func (s *userService) GetRoster(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

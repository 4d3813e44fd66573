package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	codeTTL      = 5 * time.Minute
	resendWindow = time.Minute
	// maxFailures 连续输错次数上限，达到后验证码作废
	maxFailures = 5
)

// ErrTooOften 发送过于频繁
var ErrTooOften = errors.New("please wait before sending again")

type OTPService interface {
	Send(ctx context.Context, mobile string) (string, error)
	Verify(ctx context.Context, mobile, code string) bool
}

type otpService struct {
	rdb redis.Cmdable
	// fixedCode 非空时固定返回该验证码，仅用于开发环境
	fixedCode string
	log       *zap.Logger
}

func NewOTPService(rdb redis.Cmdable, fixedCode string, log *zap.Logger) OTPService {
	return &otpService{rdb: rdb, fixedCode: fixedCode, log: log}
}

func key(mobile string) string {
	return fmt.Sprintf("otp:%s", mobile)
}

func failKey(mobile string) string {
	return fmt.Sprintf("otp:fail:%s", mobile)
}

// Send 生成并发送验证码
// 短信通道由外部服务负责，这里写入 Redis 并记录日志
func (s *otpService) Send(ctx context.Context, mobile string) (string, error) {
	// 1. 频率限制 (1分钟内只能发一次)
	ttl, err := s.rdb.TTL(ctx, key(mobile)).Result()
	if err == nil && ttl > codeTTL-resendWindow {
		return "", ErrTooOften
	}

	// 2. 生成验证码
	code := s.fixedCode
	if code == "" {
		code, err = randomCode()
		if err != nil {
			return "", err
		}
	}

	// 3. 存入 Redis (5分钟过期)，重新计数输错次数
	if err := s.rdb.Set(ctx, key(mobile), code, codeTTL).Err(); err != nil {
		return "", err
	}
	s.rdb.Del(ctx, failKey(mobile))

	s.log.Info("OTP issued", zap.String("mobile", mask(mobile)))
	return code, nil
}

// Verify 验证验证码
// 验证成功后立即删除，防止重放；连续输错 maxFailures 次后验证码作废
func (s *otpService) Verify(ctx context.Context, mobile, code string) bool {
	val, err := s.rdb.Get(ctx, key(mobile)).Result()
	if err != nil {
		return false
	}

	if val == code {
		s.rdb.Del(ctx, key(mobile), failKey(mobile))
		return true
	}

	failures, err := s.rdb.Incr(ctx, failKey(mobile)).Result()
	if err != nil {
		s.log.Warn("OTP failure counter unavailable", zap.String("mobile", mask(mobile)), zap.Error(err))
		return false
	}
	if failures == 1 {
		s.rdb.Expire(ctx, failKey(mobile), codeTTL)
	}
	if failures >= maxFailures {
		s.rdb.Del(ctx, key(mobile), failKey(mobile))
		s.log.Warn("OTP revoked after repeated failures", zap.String("mobile", mask(mobile)))
	}
	return false
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// mask 隐藏手机号中间位
func mask(mobile string) string {
	if len(mobile) < 7 {
		return "***"
	}
	return mobile[:3] + "****" + mobile[len(mobile)-4:]
}

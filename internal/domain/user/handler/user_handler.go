package handler

import (
	"errors"
	"eyewear_admin/internal/domain/user/service"
	"eyewear_admin/internal/pkg/otp"
	"eyewear_admin/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// SendOTPInput 发送验证码输入
type SendOTPInput struct {
	Mobile string `json:"mobile" binding:"required,min=7,max=20"`
}

// LoginInput 登录输入
type LoginInput struct {
	Mobile string `json:"mobile" binding:"required"`
	Code   string `json:"code" binding:"required,len=6"`
}

// SendOTP 发送验证码
// @Summary 发送登录验证码
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body SendOTPInput true "手机号"
// @Success 200 {object} map[string]interface{}
// @Router /auth/otp [post]
func (h *UserHandler) SendOTP(c *gin.Context) {
	var input SendOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.SendOTP(c.Request.Context(), input.Mobile); err != nil {
		if errors.Is(err, otp.ErrTooOften) {
			response.Error(c, http.StatusTooManyRequests, response.ErrOTPTooOften, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to send verification code")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Verification code sent"})
}

// Login 验证码登录
// @Summary 验证码登录，返回 Bearer Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "手机号与验证码"
// @Success 200 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, err := h.service.Login(c.Request.Context(), input.Mobile, input.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode), errors.Is(err, service.ErrUserNotFound):
			response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, "Invalid mobile or verification code")
		case errors.Is(err, service.ErrAccountBanned), errors.Is(err, service.ErrAccountDeleted):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Login failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}

// GetAllUsersList 可分配优惠券的用户列表
// @Summary 用户列表
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /admin/getAllUsersList [get]
func (h *UserHandler) GetAllUsersList(c *gin.Context) {
	users, err := h.service.GetRoster(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

package user

import (
	"eyewear_admin/internal/domain/user/handler"
	"eyewear_admin/internal/domain/user/repository"
	"eyewear_admin/internal/domain/user/service"
	"eyewear_admin/internal/pkg/config"
	"eyewear_admin/internal/pkg/middleware"
	"eyewear_admin/internal/pkg/otp"
	"eyewear_admin/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 登录接口需要最先注册
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	otpService := otp.NewOTPService(ctx.Redis, config.GlobalConfig.App.TestOTPCode, ctx.Logger)
	userService := service.NewCachedUserService(
		service.NewUserService(userRepo, otpService), ctx.Cache, ctx.Logger)
	userHandler := handler.NewUserHandler(userService)

	// 2. 路由注册
	setupRoutes(ctx.API, userHandler)

	return nil
}

func setupRoutes(api *gin.RouterGroup, h *handler.UserHandler) {
	// 公开路由
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/otp", h.SendOTP) // 发送验证码
		authGroup.POST("/login", h.Login) // 登录
	}

	// 管理员路由
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/getAllUsersList", h.GetAllUsersList)
	}
}

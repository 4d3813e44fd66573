package coupon

import (
	"eyewear_admin/internal/domain/coupon/handler"
	"eyewear_admin/internal/domain/coupon/repository"
	"eyewear_admin/internal/domain/coupon/service"
	"eyewear_admin/internal/pkg/middleware"
	"eyewear_admin/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CouponModule 优惠券模块
type CouponModule struct{}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	return 10
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	cRepo := repository.NewCouponRepository(ctx.DB)
	cService := service.NewCouponService(cRepo, ctx.Cache, ctx.Publisher, ctx.Logger)
	cHandler := handler.NewCouponHandler(cService)

	// 2. 路由注册
	setupRoutes(ctx.API, cHandler)

	return nil
}

func setupRoutes(api *gin.RouterGroup, h *handler.CouponHandler) {
	// 全部为管理员接口
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/getAllCoupons", h.GetAllCoupons)
		admin.GET("/getCouponById", h.GetCouponByID)
		admin.POST("/createCoupon", h.CreateCoupon)
		admin.POST("/updateCoupon", h.UpdateCoupon)
		// 旧版前端使用 GET 删除
		admin.GET("/deleteCoupon", h.DeleteCoupon)
		admin.DELETE("/coupons/:id", h.DeleteCoupon)
	}
}

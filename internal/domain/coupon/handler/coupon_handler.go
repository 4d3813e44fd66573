package handler

import (
	"errors"
	"eyewear_admin/internal/domain/coupon/service"
	"eyewear_admin/internal/pkg/event"
	"eyewear_admin/internal/pkg/middleware"
	"eyewear_admin/pkg/response"
	"eyewear_admin/pkg/utils"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type CouponHandler struct {
	service service.CouponService
}

var registerTagName sync.Once

func NewCouponHandler(service service.CouponService) *CouponHandler {
	// 校验错误使用 JSON 字段名，与前端表单字段一致
	registerTagName.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonFieldName)
		}
	})
	return &CouponHandler{service: service}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// UpdateCouponInput 更新请求体，ID 放在 body 中
type UpdateCouponInput struct {
	ID string `json:"id" binding:"required"`
	service.CouponInput
}

// bindError 将绑定错误转换为字段级错误
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	response.Invalid(c, http.StatusBadRequest, "validation error", fields)
}

// serviceError 将业务错误映射为 HTTP 响应
func serviceError(c *gin.Context, err error) {
	var invalid *service.InvalidError
	switch {
	case errors.As(err, &invalid):
		response.Invalid(c, http.StatusBadRequest, "validation error", invalid.Fields)
	case errors.Is(err, service.ErrCouponNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCouponNotFound, "Coupon not found")
	case errors.Is(err, service.ErrCodeExists):
		response.Error(c, http.StatusConflict, response.ErrCouponCodeExists, "Coupon code already exists")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}

// withOperator 事件中记录当前管理员
func withOperator(c *gin.Context) *gin.Context {
	c.Request = c.Request.WithContext(event.WithOperator(c.Request.Context(), middleware.UserID(c)))
	return c
}

// GetAllCoupons 优惠券列表
// @Summary 优惠券分页列表
// @Tags Coupon
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页条数"
// @Param search query string false "按券码或描述搜索"
// @Success 200 {object} map[string]interface{}
// @Router /admin/getAllCoupons [get]
func (h *CouponHandler) GetAllCoupons(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.List(c.Request.Context(), p)
	if err != nil {
		serviceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"coupons":    result.Coupons,
		"totalPages": result.TotalPages,
		"totalItems": result.TotalItems,
	})
}

// GetCouponByID 优惠券详情
// @Summary 优惠券详情，包含核销记录
// @Tags Coupon
// @Produce json
// @Security BearerAuth
// @Param id query string true "优惠券ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Response
// @Router /admin/getCouponById [get]
func (h *CouponHandler) GetCouponByID(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "id is required")
		return
	}

	coupon, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"coupon": coupon})
}

// CreateCoupon 创建优惠券
// @Summary 创建优惠券
// @Tags Coupon
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CouponInput true "优惠券"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/createCoupon [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var input service.CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	coupon, err := h.service.Create(withOperator(c).Request.Context(), input)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"message": "Coupon created",
		"id":      coupon.ID,
	})
}

// UpdateCoupon 更新优惠券
// @Summary 更新优惠券
// @Tags Coupon
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body UpdateCouponInput true "优惠券"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/updateCoupon [post]
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var input UpdateCouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if err := h.service.Update(withOperator(c).Request.Context(), input.ID, input.CouponInput); err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Coupon updated"})
}

// DeleteCoupon 删除优惠券，兼容旧版 GET ?id= 与 DELETE /coupons/:id
// @Summary 删除优惠券
// @Tags Coupon
// @Produce json
// @Security BearerAuth
// @Param id query string true "优惠券ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Response
// @Router /admin/deleteCoupon [get]
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		id = c.Query("id")
	}
	if id == "" {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "id is required")
		return
	}

	if err := h.service.Delete(withOperator(c).Request.Context(), id); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
}

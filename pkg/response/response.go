package response

import (
	"github.com/gin-gonic/gin"
)

// Response 失败响应结构
// 成功响应的字段随接口不同，统一带 success=true
type Response struct {
	Success bool              `json:"success"`
	Code    int               `json:"code"`              // 业务码
	Message string            `json:"message,omitempty"` // 提示信息，前端原样展示
	Errors  map[string]string `json:"errors,omitempty"`  // 字段级错误
}

// Success 成功响应
func Success(c *gin.Context, httpCode int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(httpCode, body)
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Success: false,
		Code:    errCode,
		Message: msg,
	})
}

// Invalid 字段校验失败 (HTTP 400)
func Invalid(c *gin.Context, httpCode int, msg string, fields map[string]string) {
	c.JSON(httpCode, Response{
		Success: false,
		Code:    ErrInvalidParam,
		Message: msg,
		Errors:  fields,
	})
}

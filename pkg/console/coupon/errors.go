package coupon

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrServerValidation = errors.New("server validation error")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrNetwork          = errors.New("network error")
	ErrServer           = errors.New("server error")
	ErrUnauthorized     = errors.New("unauthorized")
)

// 通知文案
const (
	GenericValidationMessage = "validation error"
	GenericFallbackMessage   = "Something went wrong, please try again"
)

// ValidationError 客户端校验失败，请求不会发出
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid coupon draft: " + strings.Join(parts, ", ")
}

// APIError 服务端返回的错误
// Message 为服务端响应体中的 message，原样展示给用户
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d): %s", e.kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.kind, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// newAPIError 按 HTTP 状态码归类
func newAPIError(status int, message string, fields map[string]string) *APIError {
	var kind error
	switch {
	case status == http.StatusNotFound:
		kind = ErrNotFound
	case status == http.StatusConflict:
		kind = ErrConflict
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrUnauthorized
	case status >= 400 && status < 500:
		kind = ErrServerValidation
	default:
		kind = ErrServer
	}
	return &APIError{StatusCode: status, Message: message, Fields: fields, kind: kind}
}

// networkError 网络不可达、超时等
type networkError struct {
	op  string
	err error
}

func (e *networkError) Error() string {
	return fmt.Sprintf("%s: %v", e.op, e.err)
}

func (e *networkError) Unwrap() []error {
	return []error{ErrNetwork, e.err}
}

// Notification 交给界面展示的提示
type Notification struct {
	Title   string
	Message string
}

// Notify 把任意失败翻译成一条用户提示
func Notify(err error) Notification {
	if err == nil {
		return Notification{}
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return Notification{Title: "Invalid coupon", Message: GenericValidationMessage}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return Notification{Title: "Error", Message: apiErr.Message}
		}
		if errors.Is(apiErr, ErrServerValidation) {
			return Notification{Title: "Error", Message: GenericValidationMessage}
		}
		return Notification{Title: "Error", Message: GenericFallbackMessage}
	}

	return Notification{Title: "Error", Message: GenericFallbackMessage}
}

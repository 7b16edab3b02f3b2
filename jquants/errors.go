package jquants

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredentials 表示既没有邮箱密码也没有 refresh token。
	ErrNoCredentials = errors.New("jquants: 缺少认证信息，请设置 JQUANTS_AUTH_MAIL_ADDRESS 与 JQUANTS_AUTH_PASSWORD")
	// ErrAuthentication 表示认证失败。
	ErrAuthentication = errors.New("jquants: 认证失败")
	// ErrTokenExpired 表示 refresh token 已失效且无法重新获取。
	ErrTokenExpired = errors.New("jquants: token 已过期")
	// ErrRateLimited 表示触发服务端限流。
	ErrRateLimited = errors.New("jquants: 触发接口限流")
	// ErrNotFound 表示请求的标的不存在。
	ErrNotFound = errors.New("jquants: 标的不存在")
)

// APIError 表示接口返回的非 2xx 响应。
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jquants: 接口返回 %d: %s", e.StatusCode, e.Body)
}

// IsForbidden 判断错误是否为权限不足（403）。
// V2 按订阅档位限制端点，权限不足时上层按“无数据”处理而非报错。
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 403
	}
	return false
}

// IsRetryable 判断错误是否可通过重试恢复。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return false
}

package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// maxErrorBody 限制错误信息中保留的响应体长度。
const maxErrorBody = 512

// StatusError 表示 API 返回了非 2xx 状态码。
type StatusError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return e.Op + ": " + e.StatusMessage()
}

// StatusMessage 返回不含操作名的 "状态码 - 响应体"，用于面向用户的输出。
func (e *StatusError) StatusMessage() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%d - %s", e.StatusCode, body)
}

// IsStatus 判断 err 是否为指定状态码的 StatusError。
func IsStatus(err error, code int) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == code
	}
	return false
}

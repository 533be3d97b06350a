package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 是请求失败时的标准化 JSON 响应。
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

// APIError 表示返回给客户端的详细错误信息。
// Missing/Available 只在缺列错误时填充，供前端直接展示诊断。
type APIError struct {
	Code      int      `json:"code"`
	Message   string   `json:"message"`
	Missing   []string `json:"missing,omitempty"`
	Available []string `json:"available,omitempty"`
}

// SendError 使用给定的 HTTP 状态码和标准化的 JSON 错误载荷进行响应。
func SendError(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, ErrorResponse{
		Success: false,
		Error: APIError{
			Code:    httpStatus,
			Message: message,
		},
	})
}

// SendMissingColumns 发送一个 422 错误，携带缺失列和可用列清单。
func SendMissingColumns(c *gin.Context, message string, missing, available []string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
		Success: false,
		Error: APIError{
			Code:      http.StatusUnprocessableEntity,
			Message:   message,
			Missing:   missing,
			Available: available,
		},
	})
}

// BadRequest 发送一个 400 Bad Request 错误。
func BadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

// NotFound 发送一个 404 Not Found 错误。
func NotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

// InternalServerError 发送一个 500 Internal Server Error 错误。
func InternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

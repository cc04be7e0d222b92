package server

import (
	"errors"
	"net/http"

	"notehub/cmd/note-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// Response 统一响应格式
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// NoContent 无内容响应
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应
func Error(c *gin.Context, err error) {
	statusCode, code, message := parseError(err)
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// parseError 解析错误类型并返回相应的 HTTP 状态码。
// 聚合失败统一对外表现为一个不透明的 500，不泄露内部细节。
func parseError(err error) (statusCode, code int, message string) {
	switch {
	case errors.Is(err, domain.ErrInvalidUserID),
		errors.Is(err, domain.ErrInvalidNoteID),
		errors.Is(err, domain.ErrKeywordRequired):
		return http.StatusBadRequest, 400, err.Error()
	default:
		return http.StatusInternalServerError, 500, "internal server error"
	}
}

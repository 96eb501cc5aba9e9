// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"farm-assist-go/internal/service"
	"farm-assist-go/pkg/log"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": message,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
		"data":    nil,
	})
}

// statusFor 将业务层错误映射为 HTTP 状态码。
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidLanguage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError 按错误类型返回响应。5xx 时使用 fallbackMessage，不向客户端暴露内部错误。
func respondServiceError(c *gin.Context, err error, fallbackMessage string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s 失败: %v", c.Request.Method, c.FullPath(), err)
		respondError(c, status, fallbackMessage)
		return
	}
	respondError(c, status, err.Error())
}

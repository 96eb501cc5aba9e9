package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"farm-assist-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 是请求 ID 的响应头，客户端传入时沿用。
const RequestIDHeader = "X-Request-ID"

// 最多记录的请求/响应体字节数。
const maxLoggedBody = 4 << 10

// bodyLogWriter 用于捕获响应体
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 实现了 io.Writer 接口，将响应写入 gin.ResponseWriter 和一个内部的 buffer
func (w bodyLogWriter) Write(b []byte) (int, error) {
	if w.body.Len() < maxLoggedBody {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// RequestLogger 是一个 Gin 中间件，记录每个请求的状态码、耗时和请求 ID。
// 请求体和响应体只在 debug 级别记录，认证相关的路由从不记录。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestId", requestID)
		c.Header(RequestIDHeader, requestID)

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/chat/ws/") {
			path = "/chat/ws/:token"
		}
		withBodies := log.DebugEnabled() && !isSensitivePath(path) && !isWebsocket(c)

		var requestBody []byte
		var blw *bodyLogWriter
		if withBodies {
			if c.Request.Body != nil {
				requestBody, _ = io.ReadAll(c.Request.Body)
			}
			// 读取后重新放回，后续处理函数可以正常读取
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			blw = &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
			c.Writer = blw
		}

		c.Next()

		fields := []interface{}{
			"requestId", requestID,
			"statusCode", c.Writer.Status(),
			"latency", time.Since(startTime).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", path,
		}
		if withBodies {
			fields = append(fields, "requestBody", truncate(requestBody), "responseBody", blw.body.String())
			log.Debugw("HTTP Request Log", fields...)
			return
		}
		log.Infow("HTTP Request Log", fields...)
	}
}

func isSensitivePath(path string) bool {
	return strings.Contains(path, "/auth/") || strings.HasSuffix(path, "/logout") || strings.HasPrefix(path, "/chat/ws/")
}

func isWebsocket(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}

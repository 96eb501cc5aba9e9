package middleware

import (
	"net/http"

	"farm-assist-go/internal/model"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware 检查用户是否具有管理员权限。
// 此中间件必须在 AuthMiddleware 之后使用。
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUser, ok := CurrentUser(c)
		if !ok {
			// AuthMiddleware 未能写入用户，属于路由配置错误
			abort(c, http.StatusInternalServerError, "无法获取用户信息")
			return
		}

		if currentUser.Role != model.UserRoleAdmin {
			abort(c, http.StatusForbidden, "权限不足，需要管理员权限")
			return
		}

		c.Next()
	}
}

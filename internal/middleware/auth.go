// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"farm-assist-go/internal/model"
	"farm-assist-go/internal/service"
	"farm-assist-go/pkg/log"
	"farm-assist-go/pkg/token"

	"github.com/gin-gonic/gin"
)

// 上下文中保存用户和 claims 的键。
const (
	ContextUserKey   = "user"
	ContextClaimsKey = "claims"
)

// AuthMiddleware 创建一个 Gin 中间件，用于 JWT 认证。
// 它会从请求头中提取 access token，检查是否已注销，并将完整的 User 对象存入 Gin 的上下文中。
func AuthMiddleware(jwtManager *token.JWTManager, userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "请求未包含授权头")
			return
		}

		// Token 以 "Bearer <token>" 的形式提供
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abort(c, http.StatusUnauthorized, "无效的授权头格式")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))

		user, claims, ok := Authenticate(c, jwtManager, userService, tokenString)
		if !ok {
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// Authenticate 校验 access token 并加载用户。失败时已写入响应并中止请求。
// websocket 握手通过路径参数传 token，也走这里。
func Authenticate(c *gin.Context, jwtManager *token.JWTManager, userService service.UserService, tokenString string) (*model.User, *token.CustomClaims, bool) {
	claims, err := jwtManager.VerifyTyped(tokenString, token.TypeAccess)
	if err != nil {
		abort(c, http.StatusUnauthorized, "无效或已过期的 token")
		return nil, nil, false
	}

	revoked, err := userService.IsTokenRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		log.Error("检查 token 黑名单失败", err)
		abort(c, http.StatusInternalServerError, "无法校验 token")
		return nil, nil, false
	}
	if revoked {
		abort(c, http.StatusUnauthorized, "token 已注销")
		return nil, nil, false
	}

	user, err := userService.GetProfile(claims.UserID)
	if errors.Is(err, service.ErrNotFound) {
		// token 有效但用户已被删除
		abort(c, http.StatusUnauthorized, "用户不存在")
		return nil, nil, false
	}
	if err != nil {
		log.Error("加载当前用户失败", err)
		abort(c, http.StatusInternalServerError, "无法加载用户信息")
		return nil, nil, false
	}
	return user, claims, true
}

// CurrentUser 返回 AuthMiddleware 存入的用户。
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// CurrentClaims 返回 AuthMiddleware 存入的 claims。
func CurrentClaims(c *gin.Context) (*token.CustomClaims, bool) {
	v, exists := c.Get(ContextClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*token.CustomClaims)
	return claims, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": status, "message": message, "data": nil})
}

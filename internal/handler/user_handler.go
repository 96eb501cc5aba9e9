package handler

import (
	"net/http"

	"farm-assist-go/internal/middleware"
	"farm-assist-go/internal/service"
	"farm-assist-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// UserHandler 负责处理所有与普通用户相关的 API 请求。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile 返回当前登录用户的资料。
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, found := middleware.CurrentUser(c)
	if !found {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}
	respondOK(c, "success", user)
}

// UpdateLanguageRequest 定义了修改语言偏好的请求体。
type UpdateLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// UpdateLanguage 修改界面语言，只接受 en、hi、te。
func (h *UserHandler) UpdateLanguage(c *gin.Context) {
	user, found := middleware.CurrentUser(c)
	if !found {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}
	var req UpdateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "无效的请求负载：language 不能为空")
		return
	}

	updated, err := h.userService.UpdateLanguage(user.ID, req.Language)
	if err != nil {
		log.Warnf("UpdateLanguage: user %d, language %q, error: %v", user.ID, req.Language, err)
		respondServiceError(c, err, "Failed to update language")
		return
	}
	respondOK(c, "Language updated", updated)
}

// LogoutRequest 的 refreshToken 可选，传入时一并注销。
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout 注销当前 access token。
func (h *UserHandler) Logout(c *gin.Context) {
	claims, found := middleware.CurrentClaims(c)
	if !found {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}
	var req LogoutRequest
	// 请求体可以为空
	_ = c.ShouldBindJSON(&req)

	if err := h.userService.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		respondServiceError(c, err, "Failed to logout")
		return
	}
	log.Infof("User %d logged out", claims.UserID)
	respondOK(c, "Logout successful", nil)
}

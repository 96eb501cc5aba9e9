package handler

import (
	"net/http"

	"farm-assist-go/internal/service"
	"farm-assist-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责处理认证相关的 API 请求：Google 登录和刷新 token。
type AuthHandler struct {
	userService service.UserService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// GoogleLoginRequest 定义了 Google 登录 API 的请求体结构。
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// GoogleLogin 校验 Google ID token，首次登录时创建用户。
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("GoogleLogin: Invalid request payload, error: %v", err)
		respondError(c, http.StatusBadRequest, "无效的请求负载：idToken 不能为空")
		return
	}

	res, err := h.userService.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		log.Warnf("GoogleLogin: login failed, error: %v", err)
		respondServiceError(c, err, "Failed to sign in")
		return
	}

	log.Infof("User %d signed in with Google", res.User.ID)
	respondOK(c, "Login successful", res)
}

// RefreshTokenRequest 定义了刷新 token API 的请求体结构。
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken 处理刷新 token 的请求。
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("RefreshToken: Invalid request payload, error: %v", err)
		respondError(c, http.StatusBadRequest, "无效的请求负载：refreshToken 不能为空")
		return
	}

	res, err := h.userService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		log.Warnf("RefreshToken: Failed to refresh token, error: %v", err)
		respondServiceError(c, err, "Failed to refresh token")
		return
	}

	log.Info("Token refreshed successfully")
	respondOK(c, "Token refreshed successfully", gin.H{
		"token":        res.AccessToken,
		"refreshToken": res.RefreshToken,
	})
}

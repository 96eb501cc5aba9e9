package handler

import (
	"net/http"

	"farm-assist-go/internal/middleware"
	"farm-assist-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 处理与对话相关的 API 请求。
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// GetConversations 处理获取用户对话历史的请求。
func (h *ConversationHandler) GetConversations(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}

	history, err := h.service.GetHistory(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve conversation history")
		return
	}
	respondOK(c, "success", history)
}

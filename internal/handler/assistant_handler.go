package handler

import (
	"farm-assist-go/pkg/advisor"

	"github.com/gin-gonic/gin"
)

// AssistantHandler 公开离线分类规则，客户端可以据此在本地给出固定回答。
type AssistantHandler struct{}

func NewAssistantHandler() *AssistantHandler {
	return &AssistantHandler{}
}

// ListTopics 返回全部主题、按顺序匹配的规则和每个主题的固定回答。
func (h *AssistantHandler) ListTopics(c *gin.Context) {
	respondOK(c, "success", gin.H{
		"topics":  advisor.AllTopics(),
		"rules":   advisor.Rules(),
		"answers": advisor.Entries(),
	})
}

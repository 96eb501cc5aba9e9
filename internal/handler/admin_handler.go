package handler

import (
	"strconv"

	"farm-assist-go/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler 负责处理管理员相关的 API 请求。
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetAssistantStats 返回助手在线回答和兜底回答的统计。
func (h *AdminHandler) GetAssistantStats(c *gin.Context) {
	stats, err := h.adminService.GetAssistantStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch assistant stats")
		return
	}
	respondOK(c, "success", stats)
}

// ListUsers 分页列出用户。
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	users, err := h.adminService.ListUsers(page, size)
	if err != nil {
		respondServiceError(c, err, "Failed to list users")
		return
	}
	respondOK(c, "success", users)
}

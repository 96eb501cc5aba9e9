package handler

import (
	"net/http"
	"strconv"

	"farm-assist-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ContentHandler 提供节水建议、水稻指南、农事建议和内容搜索接口，均无需登录。
type ContentHandler struct {
	contentService service.ContentService
}

func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) ListWaterTips(c *gin.Context) {
	tips, err := h.contentService.ListWaterTips(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch water tips")
		return
	}
	respondOK(c, "success", tips)
}

func (h *ContentHandler) GetWaterTip(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	tip, err := h.contentService.GetWaterTip(c.Request.Context(), id)
	if err != nil {
		respondContentError(c, err, "Water tip not found", "Failed to fetch water tip")
		return
	}
	respondOK(c, "success", tip)
}

// ListPaddyInfo 支持 category 参数过滤。
func (h *ContentHandler) ListPaddyInfo(c *gin.Context) {
	infos, err := h.contentService.ListPaddyInfo(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err, "Failed to fetch paddy information")
		return
	}
	respondOK(c, "success", infos)
}

func (h *ContentHandler) GetPaddyInfo(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	info, err := h.contentService.GetPaddyInfo(c.Request.Context(), id)
	if err != nil {
		respondContentError(c, err, "Paddy information not found", "Failed to fetch paddy information")
		return
	}
	respondOK(c, "success", info)
}

func (h *ContentHandler) ListFarmingTips(c *gin.Context) {
	tips, err := h.contentService.ListFarmingTips(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to fetch farming tips")
		return
	}
	respondOK(c, "success", tips)
}

// Search 全文搜索内容，参数 q 必填，limit 可选。
func (h *ContentHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	results, err := h.contentService.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondServiceError(c, err, "Failed to search content")
		return
	}
	respondOK(c, "success", results)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

func respondContentError(c *gin.Context, err error, notFound, fallback string) {
	if statusFor(err) == http.StatusNotFound {
		respondError(c, http.StatusNotFound, notFound)
		return
	}
	respondServiceError(c, err, fallback)
}

package handler

import (
	"net/http"

	"farm-assist-go/internal/middleware"
	"farm-assist-go/internal/service"

	"github.com/gin-gonic/gin"
)

// SoilHandler 提供土壤湿度的查询和上报接口。
type SoilHandler struct {
	soilService service.SoilService
}

func NewSoilHandler(soilService service.SoilService) *SoilHandler {
	return &SoilHandler{soilService: soilService}
}

// SaveSoilRequest 是上报土壤湿度的请求体。
type SaveSoilRequest struct {
	Location      string `json:"location" binding:"required"`
	MoistureLevel *int   `json:"moistureLevel" binding:"required"`
}

func (h *SoilHandler) Get(c *gin.Context) {
	user, found := middleware.CurrentUser(c)
	if !found {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}
	reading, err := h.soilService.Get(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch soil data")
		return
	}
	respondOK(c, "success", reading)
}

func (h *SoilHandler) Save(c *gin.Context) {
	user, found := middleware.CurrentUser(c)
	if !found {
		respondError(c, http.StatusUnauthorized, "未登录")
		return
	}
	var req SaveSoilRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid soil data")
		return
	}
	reading, err := h.soilService.Save(c.Request.Context(), user.ID, req.Location, *req.MoistureLevel)
	if err != nil {
		respondServiceError(c, err, "Failed to save soil data")
		return
	}
	respondOK(c, "success", reading)
}

package handler

import (
	"net/http"

	"farm-assist-go/internal/service"

	"github.com/gin-gonic/gin"
)

// WeatherHandler 提供天气查询接口。
type WeatherHandler struct {
	weatherService service.WeatherService
}

func NewWeatherHandler(weatherService service.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService}
}

// GetWeather 读取 location 参数，缺省时由上游按 IP 推断地点。
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	report, err := h.weatherService.GetWeather(c.Request.Context(), c.Query("location"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}
	respondOK(c, "success", report)
}

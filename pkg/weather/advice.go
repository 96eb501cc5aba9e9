package weather

import (
	"encoding/json"
	"strings"
)

type forecastPayload struct {
	Current struct {
		TempC     float64 `json:"temp_c"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Forecast struct {
		ForecastDay []struct {
			Day struct {
				DailyChanceOfRain int `json:"daily_chance_of_rain"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Advice 根据当前天气给出一句农事建议，条件按顺序判断。
func Advice(condition string, tempC float64) string {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "rain") || strings.Contains(c, "drizzle") || strings.Contains(c, "shower"):
		return "Rain is good for your crops! Make sure to check drainage systems."
	case tempC > 35:
		return "It's very hot today. Ensure your crops have adequate water and shade if needed."
	case tempC < 10:
		return "It's cold today. Protect sensitive crops from frost."
	case strings.Contains(c, "sunny") || strings.Contains(c, "clear"):
		return "Good day for field work. Remember to stay hydrated!"
	case strings.Contains(c, "cloud") || strings.Contains(c, "overcast"):
		return "Cloudy weather is good for transplanting seedlings."
	default:
		return "Check your fields regularly and monitor crop conditions."
	}
}

// Summarize 从原始数据中提取建议和当天降雨概率。数据无法解析时返回默认建议和 0。
func Summarize(data json.RawMessage) (advice string, rainChance int) {
	var p forecastPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return Advice("", 20), 0
	}
	if len(p.Forecast.ForecastDay) > 0 {
		rainChance = p.Forecast.ForecastDay[0].Day.DailyChanceOfRain
	}
	return Advice(p.Current.Condition.Text, p.Current.TempC), rainChance
}

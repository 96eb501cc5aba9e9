package model

import (
	"encoding/json"
	"time"
)

// WeatherSnapshot 是按地点缓存的天气原始数据。
type WeatherSnapshot struct {
	Location    string          `json:"location"`
	Data        json.RawMessage `json:"data"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// WeatherReport 是天气接口的返回体：原始数据加上派生的农事建议。
type WeatherReport struct {
	Location    string          `json:"location"`
	Data        json.RawMessage `json:"data"`
	Advice      string          `json:"advice"`
	RainChance  int             `json:"rainChance"`
	LastUpdated time.Time       `json:"lastUpdated"`
	Cached      bool            `json:"cached"`
}

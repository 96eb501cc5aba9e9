package model

import "time"

// 土壤湿度状态
const (
	SoilStatusDry      = "Dry"
	SoilStatusModerate = "Moderate"
	SoilStatusOptimal  = "Optimal"
	SoilStatusWet      = "Wet"
)

// SoilStatusFor 根据湿度百分比计算状态：<30 Dry，<60 Moderate，<=80 Optimal，其余 Wet。
func SoilStatusFor(moisture int) string {
	switch {
	case moisture < 30:
		return SoilStatusDry
	case moisture < 60:
		return SoilStatusModerate
	case moisture <= 80:
		return SoilStatusOptimal
	default:
		return SoilStatusWet
	}
}

// SoilReading 是用户最近一次上报的土壤湿度，每个用户一条。
type SoilReading struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Location      string    `gorm:"type:varchar(255);not null" json:"location"`
	MoistureLevel int       `gorm:"not null" json:"moistureLevel"`
	Status        string    `gorm:"type:varchar(16);not null" json:"status"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

func (SoilReading) TableName() string {
	return "soil_readings"
}

// DefaultSoilReading 是用户尚未上报时返回的读数。
func DefaultSoilReading() SoilReading {
	return SoilReading{
		Location:      "Default Location",
		MoistureLevel: 70,
		Status:        SoilStatusOptimal,
		LastUpdated:   time.Now(),
	}
}

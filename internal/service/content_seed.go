package service

import "farm-assist-go/internal/model"

const (
	waterTipImage = "https://images.unsplash.com/photo-1543581049-ba201aba0a18"
	paddyImage    = "https://images.unsplash.com/photo-1559745350-3b01aa3f450d"
)

// SeedWaterTips 启动时写入的节水建议。
var SeedWaterTips = []model.WaterTip{
	{
		Title:    "Implement drip irrigation",
		Content:  "Implement drip irrigation to reduce water usage by up to 60% compared to traditional methods.",
		ImageURL: waterTipImage,
	},
	{
		Title:    "Rainwater harvesting",
		Content:  "Set up rainwater harvesting systems to collect and store rainwater for irrigation during dry periods.",
		ImageURL: waterTipImage,
	},
	{
		Title:    "Alternate Wetting and Drying",
		Content:  "Practice Alternate Wetting and Drying (AWD) technique in paddy fields to save water while maintaining yields.",
		ImageURL: waterTipImage,
	},
}

// SeedPaddyInfo 启动时写入的水稻种植指南。
var SeedPaddyInfo = []model.PaddyInfo{
	{
		Title:    "Soil Preparation for Paddy",
		Content:  "Prepare your soil by plowing and leveling to ensure even water distribution and optimal growing conditions.",
		Category: "Soil Preparation",
		ImageURL: paddyImage,
	},
	{
		Title:    "Paddy Seeding Techniques",
		Content:  "Use proper spacing between seeds to allow optimal growth and nutrient absorption for higher yields.",
		Category: "Seeding",
		ImageURL: paddyImage,
	},
	{
		Title:    "Water Management in Paddy Fields",
		Content:  "Maintain appropriate water levels at different growth stages to maximize yield and minimize water usage.",
		Category: "Water Management",
		ImageURL: paddyImage,
	},
	{
		Title:    "Paddy Harvesting Best Practices",
		Content:  "Harvest at the right time when 80-85% of the grains have turned golden yellow for maximum yield and quality.",
		Category: "Harvesting",
		ImageURL: paddyImage,
	},
}

// SeedFarmingTips 启动时写入的通用农事建议。
var SeedFarmingTips = []model.FarmingTip{
	{
		Title:    "Rotate your crops",
		Content:  "Alternate cereals with legumes each season to restore soil nitrogen and break pest and disease cycles.",
		Category: "Soil Health",
	},
	{
		Title:    "Mulch between rows",
		Content:  "Cover the soil with crop residue or straw to keep moisture in, suppress weeds and add organic matter as it breaks down.",
		Category: "Water Conservation",
	},
	{
		Title:    "Test soil every season",
		Content:  "A simple soil test for pH and NPK before sowing tells you exactly how much fertilizer to apply and avoids waste.",
		Category: "Soil Health",
	},
	{
		Title:    "Encourage natural predators",
		Content:  "Plant flowering borders and avoid broad-spectrum sprays so that ladybugs, spiders and birds can keep pests in check.",
		Category: "Pest Management",
	},
}

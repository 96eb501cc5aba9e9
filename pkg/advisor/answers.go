package advisor

// Entry 是一条固定回答。
type Entry struct {
	Topic Topic  `json:"topic"`
	Text  string `json:"text"`
}

// 固定回答仅有英文版本，与界面语言无关。
var bank = map[Topic]string{
	TopicWater: "For water conservation in farming: Consider implementing drip irrigation, which can save up to 60% water compared to traditional methods. " +
		"Mulching helps retain soil moisture. Leveling fields properly prevents runoff. " +
		"Scheduled irrigation during early morning or evening reduces evaporation losses.",

	TopicSoil: "For healthy soil: Regularly test soil pH and nutrient levels. Practice crop rotation to prevent nutrient depletion. " +
		"Use cover crops during off-seasons to add organic matter. Apply compost to improve soil structure. " +
		"Minimize tillage to preserve beneficial soil organisms.",

	TopicPest: "For sustainable pest management: Use companion planting to naturally repel insects. " +
		"Introduce beneficial insects like ladybugs that prey on pests. Apply neem oil as a natural pesticide. " +
		"Maintain biodiversity in your fields to prevent large pest outbreaks.",

	TopicPaddyCultivation: "For optimal paddy cultivation: 1) Choose appropriate varieties for your climate and soil type. " +
		"2) Prepare soil properly with good leveling and 2-3 plowings. " +
		"3) Use the System of Rice Intensification (SRI) for higher yields with less water. " +
		"4) Maintain 2-3 cm water level instead of deep flooding. " +
		"5) Transplant young seedlings at 8-12 days for better root development. " +
		"6) Practice proper spacing (25x25 cm) for better sunlight penetration and air circulation. " +
		"7) Apply balanced fertilization based on soil test results. " +
		"8) Monitor and control pests and diseases regularly.",

	TopicPaddyHarvest: "For paddy harvesting: 1) Harvest when 80-85% of grains turn golden yellow (typically 30-45 days after flowering). " +
		"2) Drain water from fields 7-10 days before harvesting to facilitate the process. " +
		"3) Use appropriate tools (sickle, reaper, or combine harvester) based on your farm size. " +
		"4) When using manual methods, cut the crop close to the ground. " +
		"5) Thresh immediately after harvesting to prevent grain loss. " +
		"6) Dry the grains properly to 14% moisture content for safe storage. " +
		"7) Clean the grains to remove impurities before storage. " +
		"8) Store in clean, dry, and well-ventilated spaces to prevent pest infestation.",

	TopicPaddySoil: "For soil preparation in paddy cultivation: 1) Clear the field of previous crop residues. " +
		"2) Plow the field 2-3 times to a depth of 15-20 cm. " +
		"3) Level the field properly using a laser leveler for uniform water distribution. " +
		"4) Repair bunds to prevent water seepage. " +
		"5) Apply well-decomposed farmyard manure (5-10 tons/hectare) during final plowing. " +
		"6) For acidic soils, apply lime 2-3 weeks before planting. " +
		"7) Create proper drainage channels. " +
		"8) In SRI method, prepare raised beds with channels in between for better water management.",

	TopicPaddyWater: "For water management in paddy cultivation: 1) Maintain 2-3 cm water level during early growth stages instead of deep flooding. " +
		"2) Practice alternate wetting and drying (AWD) method to save 15-30% water. " +
		"3) Install simple water tubes (made from PVC pipes with holes) to monitor water levels below the soil surface. " +
		"4) Irrigate when water level falls 15 cm below soil surface in AWD method. " +
		"5) Maintain proper field channels and bunds to prevent water loss. " +
		"6) Drain fields completely 7-10 days before harvesting. " +
		"7) Consider direct seeded rice in water-scarce regions. " +
		"8) If available, use drip irrigation for significant water savings.",

	TopicPaddyPest: "For pest and disease management in paddy: 1) Grow resistant varieties suited to your region. " +
		"2) Rotate paddy with pulses or vegetables to break pest cycles. " +
		"3) Keep bunds and channels free of weeds and crop stubble that shelter pests. " +
		"4) Protect natural enemies such as spiders, dragonflies and parasitic wasps by avoiding broad-spectrum sprays. " +
		"5) Install light traps and pheromone traps to monitor stem borer populations. " +
		"6) For blast disease, avoid excess nitrogen and use balanced fertilization. " +
		"7) For bacterial leaf blight, drain the field briefly and avoid clipping seedling tips at transplanting. " +
		"8) Apply pesticides only when pest levels cross economic threshold levels.",

	TopicPaddyFertilizer: "For fertilizer management in paddy: 1) Test your soil before each season to decide nutrient doses. " +
		"2) Apply well-decomposed farmyard manure (5-10 tons/hectare) during land preparation. " +
		"3) Use NPK at 120:60:60 kg/ha as a general recommendation. " +
		"4) Apply full phosphorus and potassium as a basal dose at the final plowing. " +
		"5) Split nitrogen into three doses: at transplanting, at active tillering and at panicle initiation. " +
		"6) Use a leaf color chart to adjust nitrogen top dressing. " +
		"7) Grow green manure crops like sesbania or use azolla as organic alternatives. " +
		"8) Apply zinc sulphate (25 kg/ha) in zinc-deficient soils.",

	TopicPaddyWeed: "For weed management in paddy: 1) Start with a clean, well-prepared field. " +
		"2) Use the stale seedbed technique: irrigate, let weeds germinate and destroy them before planting. " +
		"3) Level the field well so that water covers the soil evenly. " +
		"4) Maintain 2-5 cm standing water after transplanting to suppress weed growth. " +
		"5) Weed mechanically with a cono or rotary weeder at 10-15 days after transplanting. " +
		"6) Repeat mechanical weeding at 25-30 days after transplanting. " +
		"7) Keep bunds and irrigation channels free of weeds. " +
		"8) Use certified, weed-free seed.",

	TopicPaddyPostHarvest: "For post-harvest handling of paddy: 1) Thresh the crop soon after harvesting to avoid grain loss. " +
		"2) Clean the grains to remove chaff, stones and weed seeds. " +
		"3) Dry the grains to 14% moisture content before storage. " +
		"4) Avoid drying on bare ground; use tarpaulins or drying floors. " +
		"5) Store in clean, dry and well-ventilated spaces raised above the floor. " +
		"6) Use jute bags with polythene liners to keep out moisture. " +
		"7) For long-term storage, use hermetic bags that block air and insects. " +
		"8) Inspect stored grain regularly for pests, mould and moisture.",

	TopicPaddyGeneral: "For paddy cultivation: 1) Prepare soil properly with good leveling and 2-3 plowings. " +
		"2) Use the System of Rice Intensification (SRI) for higher yields with less water. " +
		"3) Maintain 2-3 cm water level instead of deep flooding. " +
		"4) Apply well-decomposed farmyard manure (5-10 tons/hectare) during land preparation. " +
		"5) Transplant young seedlings at 8-12 days for better growth. " +
		"6) Harvest when 80-85% of grains turn golden yellow. " +
		"7) Dry the grains properly to 14% moisture content for safe storage. " +
		"8) Practice crop rotation and integrated pest management for sustainable production.",

	TopicNone: "I can provide information about sustainable farming practices, water conservation, soil health, and paddy cultivation. " +
		"This is a limited offline answer. Please sign in to get more detailed, personalised advice from the farming assistant.",
}

// Lookup 返回主题对应的固定回答。未知主题按 TopicNone 处理，结果总是非空。
func Lookup(topic Topic) string {
	if text, ok := bank[topic]; ok {
		return text
	}
	return bank[TopicNone]
}

// Answer 对问题分类并返回对应的固定回答。
func Answer(question string) (Topic, string) {
	topic := Classify(question)
	return topic, Lookup(topic)
}

// Entries 按 AllTopics 的顺序返回全部固定回答。
func Entries() []Entry {
	out := make([]Entry, 0, len(allTopics))
	for _, t := range allTopics {
		out = append(out, Entry{Topic: t, Text: bank[t]})
	}
	return out
}

package advisor

import "strings"

// Rule 是一条分类规则：问题包含任一关键词即命中。
// Parent 非空表示该规则只在父主题的入口条件满足后参与匹配。
type Rule struct {
	Topic    Topic    `json:"topic"`
	Keywords []string `json:"keywords"`
	Parent   string   `json:"parent,omitempty"`
}

func (r Rule) matches(q string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// 顶层规则，按顺序匹配，先命中者胜。
var topRules = []Rule{
	{Topic: TopicWater, Keywords: []string{"water conservation", "save water"}},
	{Topic: TopicSoil, Keywords: []string{"soil health", "improve soil"}},
	{Topic: TopicPest, Keywords: []string{"pest", "insect control"}},
}

// 进入水稻子分类的入口关键词。
var paddyGate = []string{"paddy", "rice"}

// 水稻子分类规则，按顺序匹配；都不命中时为 paddy.general。
var paddyRules = []Rule{
	{Topic: TopicPaddyCultivation, Keywords: []string{"cultivat", "grow"}},
	{Topic: TopicPaddyHarvest, Keywords: []string{"harvest"}},
	{Topic: TopicPaddySoil, Keywords: []string{"soil", "land", "prepare"}},
	{Topic: TopicPaddyWater, Keywords: []string{"water", "irrigat"}},
	{Topic: TopicPaddyPest, Keywords: []string{"pest", "disease", "insect"}},
	{Topic: TopicPaddyFertilizer, Keywords: []string{"fertiliz", "nutrient", "manure"}},
	{Topic: TopicPaddyWeed, Keywords: []string{"weed"}},
	{Topic: TopicPaddyPostHarvest, Keywords: []string{"post-harvest", "storage", "processing"}},
}

// Classify 将问题归入一个主题。小写后做子串匹配，不分词，不做同义词扩展，
// 所以 "price" 也会进入水稻分支。无匹配时返回 TopicNone。
func Classify(question string) Topic {
	q := strings.ToLower(question)

	for _, r := range topRules {
		if r.matches(q) {
			return r.Topic
		}
	}

	if !containsAny(q, paddyGate) {
		return TopicNone
	}
	for _, r := range paddyRules {
		if r.matches(q) {
			return r.Topic
		}
	}
	return TopicPaddyGeneral
}

// Rules 返回完整的规则表（含入口和默认项），供接口和命令行展示。返回值是副本。
func Rules() []Rule {
	out := make([]Rule, 0, len(topRules)+len(paddyRules)+2)
	for _, r := range topRules {
		out = append(out, cloneRule(r))
	}
	out = append(out, Rule{Topic: Topic(paddyParent), Keywords: append([]string(nil), paddyGate...)})
	for _, r := range paddyRules {
		out = append(out, cloneRule(r))
	}
	out = append(out, cloneRule(Rule{Topic: TopicPaddyGeneral}))
	return out
}

// cloneRule 复制关键词，并按主题名填充 Parent。
func cloneRule(r Rule) Rule {
	r.Keywords = append([]string(nil), r.Keywords...)
	r.Parent = r.Topic.Parent()
	return r
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

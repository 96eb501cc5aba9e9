// Package advisor 提供离线问答能力：关键词主题分类与对应的固定回答。
// 服务端兜底、匿名离线接口和 farmctl 命令行共用这一份规则。
package advisor

import "strings"

// Topic 是问题的分类标签。paddy.* 为二级主题，父主题为 paddy。
type Topic string

const (
	TopicWater            Topic = "water"
	TopicSoil             Topic = "soil"
	TopicPest             Topic = "pest"
	TopicPaddyCultivation Topic = "paddy.cultivation"
	TopicPaddyHarvest     Topic = "paddy.harvest"
	TopicPaddySoil        Topic = "paddy.soil"
	TopicPaddyWater       Topic = "paddy.water"
	TopicPaddyPest        Topic = "paddy.pest"
	TopicPaddyFertilizer  Topic = "paddy.fertilizer"
	TopicPaddyWeed        Topic = "paddy.weed"
	TopicPaddyPostHarvest Topic = "paddy.postharvest"
	TopicPaddyGeneral     Topic = "paddy.general"
	TopicNone             Topic = "none"
)

const paddyParent = "paddy"

var allTopics = []Topic{
	TopicWater,
	TopicSoil,
	TopicPest,
	TopicPaddyCultivation,
	TopicPaddyHarvest,
	TopicPaddySoil,
	TopicPaddyWater,
	TopicPaddyPest,
	TopicPaddyFertilizer,
	TopicPaddyWeed,
	TopicPaddyPostHarvest,
	TopicPaddyGeneral,
	TopicNone,
}

// AllTopics 返回全部主题，顺序固定。
func AllTopics() []Topic {
	out := make([]Topic, len(allTopics))
	copy(out, allTopics)
	return out
}

// Parent 返回二级主题的父主题，一级主题返回空字符串。
func (t Topic) Parent() string {
	if i := strings.IndexByte(string(t), '.'); i > 0 {
		return string(t)[:i]
	}
	return ""
}

// Valid 判断是否为已知主题。
func (t Topic) Valid() bool {
	for _, known := range allTopics {
		if t == known {
			return true
		}
	}
	return false
}

func (t Topic) String() string { return string(t) }

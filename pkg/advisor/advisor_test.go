package advisor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		question string
		want     Topic
	}{
		{"How do I save water for my paddy farm?", TopicWater},
		{"Tips on WATER CONSERVATION", TopicWater},
		{"How can I improve soil on my rice land?", TopicSoil},
		{"soil health basics", TopicSoil},
		{"What about insect control for paddy?", TopicPest},
		{"pest problems", TopicPest},
		{"How to cultivate paddy", TopicPaddyCultivation},
		{"growing rice in clay", TopicPaddyCultivation},
		{"how to harvest paddy soil preparation", TopicPaddyHarvest},
		{"prepare land for rice", TopicPaddySoil},
		{"how much water does paddy need", TopicPaddyWater},
		{"rice irrigation schedule", TopicPaddyWater},
		{"rice disease on leaves", TopicPaddyPest},
		{"paddy insect damage", TopicPaddyPest},
		{"which fertilizer for paddy", TopicPaddyFertilizer},
		{"manure dose for rice", TopicPaddyFertilizer},
		{"weed in my paddy", TopicPaddyWeed},
		{"rice processing after threshing", TopicPaddyPostHarvest},
		{"paddy storage bags", TopicPaddyPostHarvest},
		{"tell me about paddy", TopicPaddyGeneral},
		{"what is the market price today", TopicPaddyGeneral},
		{"what is the weather tomorrow", TopicNone},
		{"", TopicNone},
	}
	for _, tc := range cases {
		t.Run(tc.question, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.question))
		})
	}
}

func TestClassifyPostHarvestShadowedByHarvest(t *testing.T) {
	// "post-harvest" contains "harvest", which is checked earlier.
	assert.Equal(t, TopicPaddyHarvest, Classify("paddy post-harvest care"))
}

func TestClassifyDeterministic(t *testing.T) {
	q := "When should I harvest my rice?"
	first := Classify(q)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Classify(q))
	}
	assert.Equal(t, TopicPaddyHarvest, first)
}

func TestLookupTotal(t *testing.T) {
	for _, topic := range AllTopics() {
		assert.NotEmpty(t, strings.TrimSpace(Lookup(topic)), topic)
	}
	assert.Equal(t, Lookup(TopicNone), Lookup(Topic("unknown.topic")))
	assert.Contains(t, Lookup(TopicNone), "sign in")
}

func TestPaddyEntriesAreEightPointLists(t *testing.T) {
	for _, e := range Entries() {
		if e.Topic.Parent() != "paddy" {
			continue
		}
		assert.Contains(t, e.Text, "1) ", e.Topic)
		assert.Contains(t, e.Text, "8) ", e.Topic)
	}
}

func TestAnswerMatchesLookup(t *testing.T) {
	topic, text := Answer("How do I save water for my paddy farm?")
	assert.Equal(t, TopicWater, topic)
	assert.Equal(t, Lookup(TopicWater), text)
}

func TestEntriesOrderAndCopy(t *testing.T) {
	entries := Entries()
	require.Len(t, entries, len(AllTopics()))
	for i, topic := range AllTopics() {
		assert.Equal(t, topic, entries[i].Topic)
	}
	entries[0].Text = "changed"
	assert.NotEqual(t, "changed", Lookup(entries[0].Topic))
}

func TestTopicParentAndValid(t *testing.T) {
	assert.Equal(t, "paddy", TopicPaddyWeed.Parent())
	assert.Equal(t, "", TopicWater.Parent())
	assert.True(t, TopicPaddyGeneral.Valid())
	assert.False(t, Topic("paddy").Valid())
}

func TestRulesReturnsCopy(t *testing.T) {
	rules := Rules()
	require.NotEmpty(t, rules)
	assert.Equal(t, TopicWater, rules[0].Topic)
	assert.Equal(t, TopicPaddyGeneral, rules[len(rules)-1].Topic)
	for _, r := range rules {
		if strings.HasPrefix(string(r.Topic), "paddy.") {
			assert.Equal(t, "paddy", r.Parent, r.Topic)
		} else {
			assert.Empty(t, r.Parent, r.Topic)
		}
	}

	rules[0].Keywords[0] = "mutated"
	assert.Equal(t, "water conservation", Rules()[0].Keywords[0])
	assert.Equal(t, TopicWater, Classify("water conservation"))
}

package service

import (
	"fmt"
	"testing"

	"farm-assist-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeHistory(n int) []model.ChatMessage {
	out := make([]model.ChatMessage, n)
	for i := range out {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		out[i] = model.ChatMessage{ID: uint(i + 1), Role: role, Content: fmt.Sprintf("m%d", i)}
	}
	return out
}

func TestBuildContextWindowEmpty(t *testing.T) {
	msgs := BuildContextWindow(nil)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleSystem, msgs[0].Role)
	assert.Equal(t, SystemPrompt, msgs[0].Content)
}

func TestBuildContextWindowShortHistory(t *testing.T) {
	msgs := BuildContextWindow(makeHistory(3))
	require.Len(t, msgs, 4)
	assert.Equal(t, "m0", msgs[1].Content)
	assert.Equal(t, "m2", msgs[3].Content)
	assert.Equal(t, model.RoleAssistant, msgs[2].Role)
}

func TestBuildContextWindowKeepsMostRecent(t *testing.T) {
	msgs := BuildContextWindow(makeHistory(26))
	require.Len(t, msgs, ContextWindowSize+1)
	assert.Equal(t, "m16", msgs[1].Content)
	assert.Equal(t, "m25", msgs[len(msgs)-1].Content)
}

func TestSystemPromptCarriesPaddyFacts(t *testing.T) {
	for _, fact := range []string{"15-20cm", "5-10 tons/hectare", "120:60:60", "8-12 days", "25x25cm", "80-85%", "14%"} {
		assert.Contains(t, SystemPrompt, fact)
	}
}

package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/vyapar/internal/config"
)

func TestFestivalPrompt(t *testing.T) {
	got := FestivalPrompt("Holika Dahan")

	assert.Equal(t,
		"Event: Holika Dahan. Context: You are a retail expert for Indian Kirana stores. "+
			"If this is any part of Holi (Lathmar, Holika Dahan, Dhulandi) or any major festival, "+
			"list 5 MUST-STOCK items. Be very specific (e.g., 'Herbal Gulal', 'Mustard Oil'). "+
			"If it is a general holiday or personal event, reply ONLY with 'SKIP'.",
		got)
}

func TestFestivalPrompt_PercentInName(t *testing.T) {
	assert.Contains(t, FestivalPrompt("100% Diwali"), "Event: 100% Diwali.")
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), config.AIConfig{Model: "gemini-2.0-flash"})
	require.ErrorIs(t, err, ErrNoAPIKey)
}

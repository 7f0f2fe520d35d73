package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	intPtr := func(i int) *int { return &i }

	t.Run("formats minutes and zero-padded seconds", func(t *testing.T) {
		assert.Equal(t, "2:05", FormatDuration(intPtr(125)))
		assert.Equal(t, "0:59", FormatDuration(intPtr(59)))
		assert.Equal(t, "10:00", FormatDuration(intPtr(600)))
	})

	t.Run("unknown durations render the placeholder", func(t *testing.T) {
		assert.Equal(t, "Неизвестно", FormatDuration(nil))
		assert.Equal(t, "Неизвестно", FormatDuration(intPtr(0)))
	})
}

func TestScoreBadgeVariant(t *testing.T) {
	assert.Equal(t, "default", ScoreBadgeVariant(95))
	assert.Equal(t, "default", ScoreBadgeVariant(80))
	assert.Equal(t, "secondary", ScoreBadgeVariant(79.9))
	assert.Equal(t, "secondary", ScoreBadgeVariant(60))
	assert.Equal(t, "destructive", ScoreBadgeVariant(59.9))
	assert.Equal(t, "destructive", ScoreBadgeVariant(0))
}

func TestKnowledgeArticleTags(t *testing.T) {
	article := &KnowledgeArticle{}

	t.Run("round trips a tag list", func(t *testing.T) {
		err := article.SetTags([]string{"скрипт", "приветствие"})
		assert.NoError(t, err)
		assert.Equal(t, []string{"скрипт", "приветствие"}, article.TagList())
	})

	t.Run("empty and malformed values decode to empty", func(t *testing.T) {
		empty := &KnowledgeArticle{}
		assert.Empty(t, empty.TagList())

		empty.Tags = []byte("{not json")
		assert.Empty(t, empty.TagList())
	})
}

func TestIsValidRuleType(t *testing.T) {
	assert.True(t, IsValidRuleType("script_compliance"))
	assert.True(t, IsValidRuleType("emotional_analysis"))
	assert.False(t, IsValidRuleType("made_up"))
	assert.False(t, IsValidRuleType(""))
}

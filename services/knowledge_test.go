package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArticleTags(t *testing.T) {
	t.Run("splits on commas and trims", func(t *testing.T) {
		tags := ParseArticleTags("скрипт, приветствие ,FAQ")
		assert.Equal(t, []string{"скрипт", "приветствие", "FAQ"}, tags)
	})

	t.Run("drops empty entries", func(t *testing.T) {
		assert.Empty(t, ParseArticleTags(""))
		assert.Equal(t, []string{"one"}, ParseArticleTags(",one,,"))
	})
}

func TestSanitizeArticleContent(t *testing.T) {
	t.Run("strips script tags", func(t *testing.T) {
		clean := SanitizeArticleContent(`Привет<script>alert(1)</script>`)
		assert.Equal(t, "Привет", clean)
	})

	t.Run("keeps basic formatting", func(t *testing.T) {
		clean := SanitizeArticleContent("<p>Шаг 1: <b>поздороваться</b></p>")
		assert.Contains(t, clean, "<b>поздороваться</b>")
	})
}

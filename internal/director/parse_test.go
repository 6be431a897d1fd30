package director

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-space/internal/normalize"
)

func TestParseResult(t *testing.T) {
	t.Run("canonical field name", func(t *testing.T) {
		res, err := ParseResult(normalize.Object{
			"finalPrompt": "full prompt text",
			"richData":    map[string]any{"strategy": "open on the hero shot"},
			"idea":        "one-liner",
		})
		require.NoError(t, err)
		assert.Equal(t, "full prompt text", res.FinalPrompt)
		assert.Equal(t, "open on the hero shot", res.RichData["strategy"])
		assert.Equal(t, "one-liner", res.Idea)
	})

	t.Run("snake_case alias", func(t *testing.T) {
		res, err := ParseResult(normalize.Object{
			"final_full_generation_prompt": "aliased prompt",
		})
		require.NoError(t, err)
		assert.Equal(t, "aliased prompt", res.FinalPrompt)
	})

	t.Run("missing deliverable is an error, not a default", func(t *testing.T) {
		_, err := ParseResult(normalize.Object{"idea": "only auxiliary data"})
		assert.ErrorIs(t, err, ErrNoPrompt)
	})

	t.Run("auxiliary fields are lenient", func(t *testing.T) {
		res, err := ParseResult(normalize.Object{"prompt": "minimal"})
		require.NoError(t, err)
		assert.Empty(t, res.Idea)
		assert.Empty(t, res.RichData)
	})
}

func TestParseAnalysis(t *testing.T) {
	t.Run("full response", func(t *testing.T) {
		a := ParseAnalysis(normalize.Object{
			"productDescription": "ceramic mug",
			"category":           "Kitchenware",
			"colors":             []any{"white", "sage"},
			"suggestedAngles":    []any{"45° hero", "top-down"},
			"suggestedScene":     "breakfast table by a window",
		})
		assert.Equal(t, "ceramic mug", a.ProductDescription)
		assert.Equal(t, "Kitchenware", a.Category)
		assert.Equal(t, []string{"white", "sage"}, a.Colors)
		assert.Len(t, a.SuggestedAngles, 2)
	})

	t.Run("every field has a default", func(t *testing.T) {
		a := ParseAnalysis(normalize.Object{})
		assert.Equal(t, "Product", a.ProductDescription)
		assert.Equal(t, "General", a.Category)
		assert.Equal(t, "Studio setting", a.SuggestedScene)
		assert.Empty(t, a.Colors)
	})
}

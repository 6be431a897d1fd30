package normalize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("strict JSON passes through", func(t *testing.T) {
		obj, err := Parse(`{"finalPrompt": "a shot of the product"}`)
		require.NoError(t, err)
		assert.Equal(t, "a shot of the product", obj.Str("finalPrompt"))
	})

	t.Run("markdown fences are stripped", func(t *testing.T) {
		obj, err := Parse("```json\n{\"idea\": \"neon city\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "neon city", obj.Str("idea"))
	})

	t.Run("prose around the object is sliced away", func(t *testing.T) {
		obj, err := Parse(`Sure! Here is your result: {"idea": "desert dawn"} Hope it helps.`)
		require.NoError(t, err)
		assert.Equal(t, "desert dawn", obj.Str("idea"))
	})

	t.Run("unrecoverable text yields ErrMalformed", func(t *testing.T) {
		_, err := Parse("I could not produce anything structured")
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("empty response yields ErrMalformed", func(t *testing.T) {
		_, err := Parse("   ")
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("braces inside strings keep outer object intact", func(t *testing.T) {
		obj, err := Parse("```\n{\"idea\": \"set in {brackets}\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "set in {brackets}", obj.Str("idea"))
	})

	t.Run("error snippet truncates on a rune boundary", func(t *testing.T) {
		// Byte 120 lands in the middle of the first multibyte rune.
		raw := strings.Repeat("a", 119) + strings.Repeat("日本語", 20)

		_, err := Parse(raw)
		require.ErrorIs(t, err, ErrMalformed)
		assert.True(t, utf8.ValidString(err.Error()), "snippet must stay valid UTF-8")
		assert.Contains(t, err.Error(), "...")
	})
}

func TestObjectAccessors(t *testing.T) {
	obj := Object{
		"finalPrompt": "primary",
		"duration":    float64(8),
		"count":       "12",
		"colors":      []any{"red", " blue ", 3},
		"richData":    map[string]any{"strategy": "hook first"},
		"scenes":      []any{map[string]any{"id": float64(1)}, "stray"},
	}

	t.Run("Str walks aliases in order", func(t *testing.T) {
		assert.Equal(t, "primary", obj.Str("missing", "finalPrompt"))
		assert.Equal(t, "", obj.Str("missing"))
	})

	t.Run("StrOr falls back", func(t *testing.T) {
		assert.Equal(t, "Product", obj.StrOr("Product", "missing"))
	})

	t.Run("Int handles numbers and digit strings", func(t *testing.T) {
		assert.Equal(t, 8, obj.Int(0, "duration"))
		assert.Equal(t, 12, obj.Int(0, "count"))
		assert.Equal(t, 5, obj.Int(5, "missing"))
	})

	t.Run("Strings keeps only trimmed string elements", func(t *testing.T) {
		assert.Equal(t, []string{"red", "blue"}, obj.Strings("colors"))
		assert.Empty(t, obj.Strings("missing"))
	})

	t.Run("Objects keeps only object elements", func(t *testing.T) {
		scenes := obj.Objects("scenes")
		require.Len(t, scenes, 1)
		assert.Equal(t, 1, scenes[0].Int(0, "id"))
	})

	t.Run("Obj misses safely", func(t *testing.T) {
		assert.Equal(t, "hook first", obj.Obj("richData").Str("strategy"))
		assert.Equal(t, "", obj.Obj("missing").Str("anything"))
	})
}

func TestLooksLikeRefusal(t *testing.T) {
	assert.True(t, LooksLikeRefusal("I cannot create that image."))
	assert.True(t, LooksLikeRefusal("I'm sorry, but I am unable to help with this."))
	assert.False(t, LooksLikeRefusal("A cinematic shot of a watch on marble."))
	assert.False(t, LooksLikeRefusal(""))
}

func TestSetRefusalCheck(t *testing.T) {
	SetRefusalCheck(func(string) bool { return true })
	assert.True(t, LooksLikeRefusal("anything at all"))

	SetRefusalCheck(nil)
	assert.False(t, LooksLikeRefusal("a normal caption"))
}

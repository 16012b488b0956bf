package openaicompat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/genrelay/genrelay/pkg/genai"
)

func TestFlattenInput(t *testing.T) {
	t.Run("plain string used as-is", func(t *testing.T) {
		assert.Equal(t, "hello", flattenInput("hello"))
	})

	t.Run("list items joined by newline", func(t *testing.T) {
		input := []any{
			map[string]any{"text": "a"},
			map[string]any{"parts": []any{map[string]any{"text": "b"}, "c"}},
		}
		assert.Equal(t, "a\nb\nc", flattenInput(input))
	})

	t.Run("typed contents flatten their parts", func(t *testing.T) {
		input := []*genai.Content{
			{Role: "user", Parts: []*genai.Part{{Text: "first"}, {Text: "second"}}},
			{Role: "model", Parts: []*genai.Part{{Text: "third"}}},
		}
		assert.Equal(t, "first\nsecond\nthird", flattenInput(input))
	})

	t.Run("text field wins over parts", func(t *testing.T) {
		input := []any{map[string]any{
			"text":  "direct",
			"parts": []any{"ignored"},
		}}
		assert.Equal(t, "direct", flattenInput(input))
	})

	t.Run("single non-list value uses text field only", func(t *testing.T) {
		assert.Equal(t, "solo", flattenInput(map[string]any{"text": "solo"}))
		assert.Equal(t, "", flattenInput(map[string]any{"parts": []any{"dropped"}}),
			"a single parts object is not flattened")
	})

	t.Run("textless shapes contribute empty strings", func(t *testing.T) {
		assert.Equal(t, "", flattenInput(nil))
		assert.Equal(t, "", flattenInput(42))
		assert.Equal(t, "a\n\nb", flattenInput([]any{"a", 42, "b"}))
	})

	t.Run("mixed strings and parts preserve order", func(t *testing.T) {
		input := []any{
			"intro",
			&genai.Part{Text: "middle"},
			&genai.Content{Parts: []*genai.Part{{Text: "end"}}},
		}
		assert.Equal(t, "intro\nmiddle\nend", flattenInput(input))
	})
}

package openaicompat

import (
	"strings"

	"github.com/genrelay/genrelay/pkg/genai"
)

// flattenInput collapses the request content union into the single prompt
// string sent to the chat-completion backend. List items are flattened
// independently and joined with newlines; a single non-list value is treated
// as one part (string or text field only). Shapes with no usable text
// contribute an empty string so nothing is silently dropped or reordered.
func flattenInput(contents any) string {
	switch v := contents.(type) {
	case nil:
		return ""
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, flattenItem(item))
		}
		return strings.Join(items, "\n")
	case []*genai.Content:
		items := make([]string, 0, len(v))
		for _, item := range v {
			items = append(items, flattenItem(item))
		}
		return strings.Join(items, "\n")
	default:
		return partToText(contents)
	}
}

// flattenItem flattens one content item: a plain string is used as-is, a
// direct text field wins over a parts list, and sub-parts join by newline.
func flattenItem(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case *genai.Part:
		if v == nil {
			return ""
		}
		return v.Text
	case genai.Part:
		return v.Text
	case *genai.Content:
		if v == nil {
			return ""
		}
		return joinParts(v.Parts)
	case genai.Content:
		return joinParts(v.Parts)
	case map[string]any:
		if raw, ok := v["text"]; ok {
			text, _ := raw.(string)
			return text
		}
		if rawParts, ok := v["parts"].([]any); ok {
			parts := make([]string, 0, len(rawParts))
			for _, rp := range rawParts {
				parts = append(parts, partToText(rp))
			}
			return strings.Join(parts, "\n")
		}
		return ""
	default:
		return ""
	}
}

func joinParts(parts []*genai.Part) string {
	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, part.Text)
	}
	return strings.Join(texts, "\n")
}

// partToText extracts text from a part-union value: a string is used as-is,
// anything else contributes its text field, empty when absent.
func partToText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case *genai.Part:
		if val == nil {
			return ""
		}
		return val.Text
	case genai.Part:
		return val.Text
	case map[string]any:
		text, _ := val["text"].(string)
		return text
	default:
		return ""
	}
}

package genai

import "strings"

// Content represents one conversational turn: a role plus ordered parts.
type Content struct {
	Role  string  `json:"role,omitempty"`
	Parts []*Part `json:"parts"`
}

// Part is a single piece of content within a turn.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded media.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerateConfig holds the generation knobs forwarded to the backend.
type GenerateConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	TopK            *int     `json:"topK,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

// GenerateContentRequest is the uniform generation request. Contents accepts
// the full union of caller shapes: a raw string, a *Content, a *Part, a
// map with a "text" or "parts" field, or a list mixing any of those.
// Adapters normalize with NormalizeContents or flatten as their protocol
// requires. Requests are transient; the gateway never retains them.
type GenerateContentRequest struct {
	Model    string          `json:"model,omitempty"`
	Contents any             `json:"contents"`
	Config   *GenerateConfig `json:"generationConfig,omitempty"`
}

// Candidate is one generated alternative. Only list order is guaranteed.
type Candidate struct {
	Content      *Content `json:"content"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// UsageMetadata reports token accounting for a response.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount      int `json:"totalTokenCount,omitempty"`
}

// GenerateContentResponse is the single normalized response envelope every
// adapter produces, regardless of the backend's native shape.
type GenerateContentResponse struct {
	Candidates    []*Candidate   `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
}

// Text returns the concatenated text parts of the first candidate, or the
// empty string when the response has no textual content.
func (r *GenerateContentResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// CountTokensRequest asks a backend to count tokens for the given content.
type CountTokensRequest struct {
	Model    string `json:"model,omitempty"`
	Contents any    `json:"contents"`
}

// CountTokensResponse reports the total token count.
type CountTokensResponse struct {
	TotalTokens int `json:"totalTokens"`
}

// EmbedContentRequest asks a backend for content embeddings.
type EmbedContentRequest struct {
	Model    string `json:"model,omitempty"`
	Contents any    `json:"contents"`
}

// ContentEmbedding is a single embedding vector.
type ContentEmbedding struct {
	Values []float64 `json:"values"`
}

// EmbedContentResponse carries one embedding per input content.
type EmbedContentResponse struct {
	Embeddings []*ContentEmbedding `json:"embeddings"`
}

// NormalizeContents converts the request content union into wire-ready
// contents. Each list element becomes its own Content: parts-bearing values
// pass through, part-like values (strings, text objects) are wrapped in a
// "user" turn. Unrecognized values contribute an empty part so positional
// information is preserved.
func NormalizeContents(v any) []*Content {
	if v == nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		contents := make([]*Content, 0, len(list))
		for _, item := range list {
			contents = append(contents, normalizeContent(item))
		}
		return contents
	}
	if list, ok := v.([]*Content); ok {
		out := make([]*Content, 0, len(list))
		for _, c := range list {
			out = append(out, normalizeContent(c))
		}
		return out
	}
	return []*Content{normalizeContent(v)}
}

func normalizeContent(v any) *Content {
	switch val := v.(type) {
	case *Content:
		if val == nil {
			return &Content{Role: "user", Parts: []*Part{{}}}
		}
		if val.Role == "" {
			return &Content{Role: "user", Parts: val.Parts}
		}
		return val
	case Content:
		return normalizeContent(&val)
	case map[string]any:
		if rawParts, ok := val["parts"].([]any); ok {
			parts := make([]*Part, 0, len(rawParts))
			for _, rp := range rawParts {
				parts = append(parts, partFromValue(rp))
			}
			role, _ := val["role"].(string)
			if role == "" {
				role = "user"
			}
			return &Content{Role: role, Parts: parts}
		}
		return &Content{Role: "user", Parts: []*Part{partFromValue(val)}}
	default:
		return &Content{Role: "user", Parts: []*Part{partFromValue(v)}}
	}
}

// partFromValue converts a part-union value into a Part. Strings become text
// parts; objects contribute their "text" field, empty when absent.
func partFromValue(v any) *Part {
	switch val := v.(type) {
	case string:
		return &Part{Text: val}
	case *Part:
		if val == nil {
			return &Part{}
		}
		return val
	case Part:
		return &val
	case map[string]any:
		text, _ := val["text"].(string)
		return &Part{Text: text}
	default:
		return &Part{}
	}
}

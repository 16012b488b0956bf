// Package openaicompat adapts a chat-completion style backend to the uniform
// content-generation contract. Structured multi-part content is flattened to a
// single user prompt; only blocking generation is supported, the remaining
// operations report not-implemented so callers fail fast instead of hanging.
package openaicompat

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/genrelay/genrelay/pkg/genai"
)

// DefaultModel is used when neither the adapter nor the request names one.
const DefaultModel = "gpt-4o"

// Adapter translates uniform generation requests into chat-completion calls.
type Adapter struct {
	client *openai.Client
	model  string
}

var _ genai.ContentGenerator = (*Adapter)(nil)

// Options configures the adapter.
type Options struct {
	// APIKey authenticates against the chat-completion backend.
	APIKey string
	// Model is the default model for requests that do not name one.
	Model string
	// BaseURL overrides the backend endpoint, mainly for tests and
	// self-hosted compatible servers.
	BaseURL string
}

// New builds an adapter around a chat-completion client.
func New(opts Options) *Adapter {
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &Adapter{
		client: openai.NewClient(reqOpts...),
		model:  opts.Model,
	}
}

// GenerateContent flattens the request content into one user message, issues a
// blocking chat completion, and rewraps the first choice as a single-candidate
// response.
func (a *Adapter) GenerateContent(ctx context.Context, req *genai.GenerateContentRequest) (*genai.GenerateContentResponse, error) {
	prompt := flattenInput(req.Contents)

	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(a.resolveModel(req.Model)),
	})
	if err != nil {
		// Backend errors carry their own status and message; pass them
		// through untranslated.
		return nil, err
	}

	text := ""
	if len(completion.Choices) > 0 {
		text = completion.Choices[0].Message.Content
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Role:  "model",
					Parts: []*genai.Part{{Text: text}},
				},
			},
		},
	}, nil
}

// GenerateContentStream is not supported by this adapter.
func (a *Adapter) GenerateContentStream(ctx context.Context, req *genai.GenerateContentRequest) (genai.ResponseStream, error) {
	return nil, genai.NewNotImplementedError(genai.BackendOpenAICompat, "streaming not implemented")
}

// CountTokens is not supported by this adapter.
func (a *Adapter) CountTokens(ctx context.Context, req *genai.CountTokensRequest) (*genai.CountTokensResponse, error) {
	return nil, genai.NewNotImplementedError(genai.BackendOpenAICompat, "token counting not implemented")
}

// EmbedContent is not supported by this adapter.
func (a *Adapter) EmbedContent(ctx context.Context, req *genai.EmbedContentRequest) (*genai.EmbedContentResponse, error) {
	return nil, genai.NewNotImplementedError(genai.BackendOpenAICompat, "embedding not implemented")
}

func (a *Adapter) resolveModel(requested string) string {
	if requested != "" {
		return requested
	}
	if a.model != "" {
		return a.model
	}
	return DefaultModel
}

// Package genai defines the uniform content-generation contract that every
// backend adapter implements. It includes the generator interface, the
// normalized request/response envelopes, and the shared error model.
package genai

import "context"

// ContentGenerator is the single interface callers depend on. Each backend
// family (identity login, API key, cloud host, chat completion) provides an
// implementation; callers never see the underlying protocol.
type ContentGenerator interface {
	// GenerateContent performs a single-shot generation and resolves to a
	// fully materialized response, or fails.
	GenerateContent(ctx context.Context, req *GenerateContentRequest) (*GenerateContentResponse, error)

	// GenerateContentStream opens a streaming generation. The returned stream
	// is lazy, finite, and non-restartable; partials arrive in backend
	// emission order. Opening the stream may itself block on connection
	// setup. Adapters without streaming support fail with a
	// not-implemented error instead of faking a one-element stream.
	GenerateContentStream(ctx context.Context, req *GenerateContentRequest) (ResponseStream, error)

	// CountTokens returns the token count for the given content.
	CountTokens(ctx context.Context, req *CountTokensRequest) (*CountTokensResponse, error)

	// EmbedContent returns embeddings for the given content.
	EmbedContent(ctx context.Context, req *EmbedContentRequest) (*EmbedContentResponse, error)
}

// ResponseStream yields partial responses from a streaming generation.
// Next returns io.EOF when the stream is exhausted. A stream is owned by a
// single consumer and must be closed when abandoned early.
type ResponseStream interface {
	Next() (*GenerateContentResponse, error)
	Close() error
}

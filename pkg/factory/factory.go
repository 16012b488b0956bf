// Package factory constructs the content generator backend selected by a
// resolved generation config. The auth mode is the single discriminant: each
// mode maps to one adapter, and every adapter satisfies the same contract, so
// callers never branch on the backend again after this point.
package factory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/genrelay/genrelay/pkg/codeassist"
	"github.com/genrelay/genrelay/pkg/config"
	"github.com/genrelay/genrelay/pkg/gemini"
	"github.com/genrelay/genrelay/pkg/genai"
	"github.com/genrelay/genrelay/pkg/openaicompat"
)

// LoginFactory builds the identity-login backend. It exists as a seam so
// tests can stand in a fake without an OAuth token source.
type LoginFactory func(ctx context.Context, opts codeassist.Options) (genai.ContentGenerator, error)

func defaultLoginFactory(ctx context.Context, opts codeassist.Options) (genai.ContentGenerator, error) {
	return codeassist.NewContentGenerator(ctx, opts)
}

// Options carries the cross-cutting inputs the adapters need beyond the
// resolved config: identity material for the login mode, endpoint overrides,
// and the shared HTTP knobs.
type Options struct {
	// SessionID ties all requests from one caller session together.
	// Defaults to a new UUID.
	SessionID string

	// TokenSource supplies OAuth tokens for the identity-login mode.
	TokenSource oauth2.TokenSource

	// Project pins the companion project for the identity-login mode,
	// skipping onboarding discovery.
	Project string

	// GeminiBaseURL and OpenAIBaseURL override backend endpoints, mainly
	// for tests and proxies.
	GeminiBaseURL string
	OpenAIBaseURL string

	Timeout time.Duration
	Logger  zerolog.Logger

	// Login replaces the identity-login constructor. Nil means the real
	// backend.
	Login LoginFactory
}

// NewContentGenerator dispatches on the config's auth mode and returns the
// matching backend adapter. Unknown modes fail with UnsupportedAuthMode, as
// does the chat-completion mode without a key (the permissive resolver
// fallback surfaces here).
func NewContentGenerator(ctx context.Context, cfg *config.GenerationConfig, opts Options) (genai.ContentGenerator, error) {
	if cfg == nil {
		return nil, genai.NewError(genai.BackendGateway, genai.ErrCodeInvalidRequest,
			"nil generation config")
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	userAgent := config.UserAgent()

	switch cfg.AuthMode {
	case config.AuthLogin:
		login := opts.Login
		if login == nil {
			login = defaultLoginFactory
		}
		return login(ctx, codeassist.Options{
			TokenSource: opts.TokenSource,
			Project:     opts.Project,
			SessionID:   sessionID,
			UserAgent:   userAgent,
			Timeout:     opts.Timeout,
			Logger:      opts.Logger,
		})

	case config.AuthGeminiAPIKey, config.AuthVertexAI:
		client := gemini.NewClient(gemini.ClientConfig{
			APIKey:    cfg.APIKey,
			VertexAI:  cfg.VertexAI,
			BaseURL:   opts.GeminiBaseURL,
			UserAgent: userAgent,
			Timeout:   opts.Timeout,
			Logger:    opts.Logger,
		})
		return client.Models, nil

	case config.AuthOpenAICompat:
		if cfg.APIKey == "" {
			return nil, genai.NewUnsupportedAuthModeError(string(cfg.AuthMode))
		}
		return openaicompat.New(openaicompat.Options{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: opts.OpenAIBaseURL,
		}), nil

	default:
		return nil, genai.NewUnsupportedAuthModeError(string(cfg.AuthMode))
	}
}

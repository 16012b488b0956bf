package config

import (
	"context"

	"github.com/genrelay/genrelay/pkg/gemini"
)

// DefaultModel is the process-wide default model used when neither the
// caller nor an override supplies one.
const DefaultModel = "gemini-2.5-flash"

// GenerationConfig is the validated, immutable per-session configuration
// produced by Resolve. It is created once per session and never mutated:
// APIKey is set only for key-based modes, VertexAI only when the cloud mode
// had all its required parameters at resolution time.
type GenerationConfig struct {
	Model    string
	APIKey   string
	VertexAI bool
	AuthMode AuthMode
}

// EffectiveModelResolver maps a requested model to the model string actually
// usable with the given key. Implementations may probe availability over the
// network and substitute another model.
type EffectiveModelResolver func(ctx context.Context, apiKey, model string) string

// ResolveOptions carries the inputs to Resolve.
type ResolveOptions struct {
	// Model is the explicitly requested model, if any.
	Model string

	// AuthMode selects the identity strategy. Never inferred.
	AuthMode AuthMode

	// ModelOverride, when set and returning a non-empty string, takes
	// precedence over Model.
	ModelOverride func() string

	// Credentials supplies credential material. Defaults to the process
	// environment.
	Credentials CredentialSource

	// ModelResolver resolves the effective model for key-based Gemini modes.
	// Defaults to gemini.ResolveEffectiveModel.
	ModelResolver EffectiveModelResolver
}

// Resolve produces the generation configuration for a session.
//
// Model precedence: ModelOverride result, then Model, then DefaultModel.
// The login mode returns immediately without touching credentials; identity
// is established out of band. Key-based modes require their credentials to
// be present; the vertex mode additionally requires project and location
// simultaneously. The openai-compat mode keeps the already-computed model
// because that backend does not speak the availability-probing protocol.
//
// When the selected mode's credentials are absent the config is returned as
// built so far, without a key. Misconfiguration then surfaces downstream as
// a backend auth error rather than here; callers wanting an early diagnostic
// must check APIKey themselves.
func Resolve(ctx context.Context, opts ResolveOptions) *GenerationConfig {
	model := opts.Model
	if opts.ModelOverride != nil {
		if m := opts.ModelOverride(); m != "" {
			model = m
		}
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &GenerationConfig{
		Model:    model,
		AuthMode: opts.AuthMode,
	}

	if opts.AuthMode == AuthLogin {
		return cfg
	}

	creds := opts.Credentials
	if creds == nil {
		creds = EnvCredentialSource{}
	}
	resolver := opts.ModelResolver
	if resolver == nil {
		resolver = gemini.ResolveEffectiveModel
	}

	geminiKey := creds.Get(EnvGeminiAPIKey)
	googleKey := creds.Get(EnvGoogleAPIKey)
	project := creds.Get(EnvGoogleCloudProject)
	location := creds.Get(EnvGoogleCloudLocation)
	openaiKey := creds.Get(EnvOpenAIAPIKey)

	switch {
	case opts.AuthMode == AuthGeminiAPIKey && geminiKey != "":
		cfg.APIKey = geminiKey
		cfg.Model = resolver(ctx, cfg.APIKey, cfg.Model)
	case opts.AuthMode == AuthVertexAI && googleKey != "" && project != "" && location != "":
		cfg.APIKey = googleKey
		cfg.VertexAI = true
		cfg.Model = resolver(ctx, cfg.APIKey, cfg.Model)
	case opts.AuthMode == AuthOpenAICompat && openaiKey != "":
		cfg.APIKey = openaiKey
	}

	return cfg
}

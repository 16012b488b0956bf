package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingResolver captures resolver invocations so tests can assert whether
// and with what inputs the model probe ran.
type recordingResolver struct {
	calls  int
	apiKey string
	model  string
	result string
}

func (r *recordingResolver) resolve(_ context.Context, apiKey, model string) string {
	r.calls++
	r.apiKey = apiKey
	r.model = model
	if r.result != "" {
		return r.result
	}
	return model
}

func TestResolveModelPrecedence(t *testing.T) {
	ctx := context.Background()

	t.Run("override wins over requested model", func(t *testing.T) {
		cfg := Resolve(ctx, ResolveOptions{
			Model:         "requested-model",
			ModelOverride: func() string { return "override-model" },
			AuthMode:      AuthLogin,
		})
		assert.Equal(t, "override-model", cfg.Model)
	})

	t.Run("empty override falls back to requested model", func(t *testing.T) {
		cfg := Resolve(ctx, ResolveOptions{
			Model:         "requested-model",
			ModelOverride: func() string { return "" },
			AuthMode:      AuthLogin,
		})
		assert.Equal(t, "requested-model", cfg.Model)
	})

	t.Run("default model when nothing requested", func(t *testing.T) {
		cfg := Resolve(ctx, ResolveOptions{AuthMode: AuthLogin})
		assert.Equal(t, DefaultModel, cfg.Model)
	})
}

func TestResolveLoginMode(t *testing.T) {
	resolver := &recordingResolver{}
	cfg := Resolve(context.Background(), ResolveOptions{
		AuthMode: AuthLogin,
		Credentials: StaticCredentials{
			EnvGeminiAPIKey: "should-not-be-read",
		},
		ModelResolver: resolver.resolve,
	})

	assert.Equal(t, AuthLogin, cfg.AuthMode)
	assert.Empty(t, cfg.APIKey, "login mode never sets a key")
	assert.False(t, cfg.VertexAI)
	assert.Zero(t, resolver.calls, "login mode must not probe models")
}

func TestResolveGeminiAPIKey(t *testing.T) {
	t.Run("key present", func(t *testing.T) {
		resolver := &recordingResolver{result: "substituted-model"}
		cfg := Resolve(context.Background(), ResolveOptions{
			Model:         "wanted-model",
			AuthMode:      AuthGeminiAPIKey,
			Credentials:   StaticCredentials{EnvGeminiAPIKey: "gk-123"},
			ModelResolver: resolver.resolve,
		})

		assert.Equal(t, "gk-123", cfg.APIKey)
		assert.False(t, cfg.VertexAI)
		assert.Equal(t, "substituted-model", cfg.Model)
		require.Equal(t, 1, resolver.calls)
		assert.Equal(t, "gk-123", resolver.apiKey)
		assert.Equal(t, "wanted-model", resolver.model)
	})

	t.Run("key absent falls through without key", func(t *testing.T) {
		resolver := &recordingResolver{}
		cfg := Resolve(context.Background(), ResolveOptions{
			AuthMode:      AuthGeminiAPIKey,
			Credentials:   StaticCredentials{},
			ModelResolver: resolver.resolve,
		})

		assert.Empty(t, cfg.APIKey)
		assert.Equal(t, AuthGeminiAPIKey, cfg.AuthMode)
		assert.Equal(t, DefaultModel, cfg.Model)
		assert.Zero(t, resolver.calls)
	})
}

func TestResolveVertexAI(t *testing.T) {
	full := StaticCredentials{
		EnvGoogleAPIKey:        "vk-456",
		EnvGoogleCloudProject:  "proj-1",
		EnvGoogleCloudLocation: "us-central1",
	}

	t.Run("all three present", func(t *testing.T) {
		resolver := &recordingResolver{}
		cfg := Resolve(context.Background(), ResolveOptions{
			AuthMode:      AuthVertexAI,
			Credentials:   full,
			ModelResolver: resolver.resolve,
		})

		assert.Equal(t, "vk-456", cfg.APIKey)
		assert.True(t, cfg.VertexAI)
		assert.Equal(t, 1, resolver.calls)
	})

	t.Run("any one missing disables cloud settings entirely", func(t *testing.T) {
		for _, missing := range []string{EnvGoogleAPIKey, EnvGoogleCloudProject, EnvGoogleCloudLocation} {
			creds := StaticCredentials{}
			for k, v := range full {
				if k != missing {
					creds[k] = v
				}
			}
			resolver := &recordingResolver{}
			cfg := Resolve(context.Background(), ResolveOptions{
				AuthMode:      AuthVertexAI,
				Credentials:   creds,
				ModelResolver: resolver.resolve,
			})

			assert.Empty(t, cfg.APIKey, "missing %s must not partially apply", missing)
			assert.False(t, cfg.VertexAI, "missing %s must not set the cloud flag", missing)
			assert.Zero(t, resolver.calls)
		}
	})
}

func TestResolveOpenAICompat(t *testing.T) {
	resolver := &recordingResolver{}
	cfg := Resolve(context.Background(), ResolveOptions{
		Model:         "gpt-4o-mini",
		AuthMode:      AuthOpenAICompat,
		Credentials:   StaticCredentials{EnvOpenAIAPIKey: "sk-789"},
		ModelResolver: resolver.resolve,
	})

	assert.Equal(t, "sk-789", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model, "requested model kept as-is")
	assert.False(t, cfg.VertexAI)
	assert.Zero(t, resolver.calls, "chat-completion mode never probes models")
}

func TestResolveIsIdempotent(t *testing.T) {
	opts := ResolveOptions{
		Model:         "m",
		AuthMode:      AuthGeminiAPIKey,
		Credentials:   StaticCredentials{EnvGeminiAPIKey: "k"},
		ModelResolver: (&recordingResolver{}).resolve,
	}
	first := Resolve(context.Background(), opts)
	second := Resolve(context.Background(), opts)
	assert.Equal(t, first, second)
}

func TestAuthMode(t *testing.T) {
	assert.True(t, AuthGeminiAPIKey.IsKeyBased())
	assert.True(t, AuthVertexAI.IsKeyBased())
	assert.True(t, AuthOpenAICompat.IsKeyBased())
	assert.False(t, AuthLogin.IsKeyBased())

	for _, m := range []AuthMode{AuthLogin, AuthGeminiAPIKey, AuthVertexAI, AuthOpenAICompat} {
		assert.True(t, m.Known())
	}
	assert.False(t, AuthMode("oauth2-device").Known())
}

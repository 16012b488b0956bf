// Package config resolves per-session generation configuration: which auth
// mode is active, which credentials back it, and which model will be used.
package config

// AuthMode is the closed set of mutually exclusive identity strategies.
// Exactly one is active per session; selection is caller-supplied.
type AuthMode string

const (
	// AuthLogin authenticates through a pre-established user identity
	// (code-assist login) rather than a bearer API key.
	AuthLogin AuthMode = "login"

	// AuthGeminiAPIKey uses a direct API key against the standard host.
	AuthGeminiAPIKey AuthMode = "gemini-api-key"

	// AuthVertexAI uses a cloud API key against the cloud-hosted variant,
	// scoped to a project and location.
	AuthVertexAI AuthMode = "vertex-ai"

	// AuthOpenAICompat uses an API key against an OpenAI-protocol
	// chat-completion backend.
	AuthOpenAICompat AuthMode = "openai-compat"
)

// IsKeyBased reports whether the mode requires a bearer API key.
func (m AuthMode) IsKeyBased() bool {
	switch m {
	case AuthGeminiAPIKey, AuthVertexAI, AuthOpenAICompat:
		return true
	}
	return false
}

// Known reports whether the mode is one of the four supported strategies.
func (m AuthMode) Known() bool {
	switch m {
	case AuthLogin, AuthGeminiAPIKey, AuthVertexAI, AuthOpenAICompat:
		return true
	}
	return false
}

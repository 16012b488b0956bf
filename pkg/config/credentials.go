package config

import "os"

// Environment variables the resolver reads. They are never mutated.
const (
	EnvGeminiAPIKey        = "GEMINI_API_KEY"
	EnvGoogleAPIKey        = "GOOGLE_API_KEY"
	EnvGoogleCloudProject  = "GOOGLE_CLOUD_PROJECT"
	EnvGoogleCloudLocation = "GOOGLE_CLOUD_LOCATION"
	EnvOpenAIAPIKey        = "OPENAI_API_KEY"
)

// CredentialSource abstracts where credential material comes from so tests
// can supply synthetic credentials without mutating real process state.
type CredentialSource interface {
	// Get returns the value for the named credential, empty when absent.
	Get(name string) string
}

// EnvCredentialSource reads credentials from process environment variables.
type EnvCredentialSource struct{}

func (EnvCredentialSource) Get(name string) string {
	return os.Getenv(name)
}

// StaticCredentials is a fixed in-memory credential source.
type StaticCredentials map[string]string

func (s StaticCredentials) Get(name string) string {
	return s[name]
}

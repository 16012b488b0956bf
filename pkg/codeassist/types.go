// Package codeassist implements the identity-login backend: an OAuth-backed
// generator over the cloudcode API, including the user onboarding flow that
// establishes the companion project a session generates under.
package codeassist

import "github.com/genrelay/genrelay/pkg/genai"

// Wire wrappers. The cloudcode API nests the standard generation request and
// response inside an envelope carrying the model, project, and prompt ID.

type generateRequestWrapper struct {
	Model        string          `json:"model"`
	Project      string          `json:"project,omitempty"`
	UserPromptID string          `json:"user_prompt_id,omitempty"`
	Request      generateRequest `json:"request"`
}

type generateRequest struct {
	Contents         []*genai.Content      `json:"contents"`
	GenerationConfig *genai.GenerateConfig `json:"generationConfig,omitempty"`
	SessionID        string                `json:"session_id,omitempty"`
}

type generateResponseWrapper struct {
	Response genai.GenerateContentResponse `json:"response"`
}

type countTokensRequestWrapper struct {
	Request countTokensRequest `json:"request"`
}

type countTokensRequest struct {
	Model    string           `json:"model"`
	Contents []*genai.Content `json:"contents"`
}

// Onboarding types.

// ClientMetadata identifies the client during onboarding.
type ClientMetadata struct {
	IDEType       string `json:"ideType,omitempty"`
	IDEVersion    string `json:"ideVersion,omitempty"`
	PluginVersion string `json:"pluginVersion,omitempty"`
	Platform      string `json:"platform,omitempty"`
	DuetProject   string `json:"duetProject,omitempty"`
	PluginType    string `json:"pluginType,omitempty"`
}

// LoadRequest asks the backend for the user's current onboarding state.
type LoadRequest struct {
	CloudaicompanionProject *string        `json:"cloudaicompanionProject,omitempty"`
	Metadata                ClientMetadata `json:"metadata"`
}

// UserTier describes one subscription tier of the login backend.
type UserTier struct {
	ID                                 string `json:"id"`
	Name                               string `json:"name,omitempty"`
	Description                        string `json:"description,omitempty"`
	UserDefinedCloudaicompanionProject *bool  `json:"userDefinedCloudaicompanionProject,omitempty"`
	IsDefault                          *bool  `json:"isDefault,omitempty"`
}

// LoadResponse reports the user's tier and companion project, if any.
type LoadResponse struct {
	CurrentTier             *UserTier  `json:"currentTier,omitempty"`
	AllowedTiers            []UserTier `json:"allowedTiers,omitempty"`
	CloudaicompanionProject *string    `json:"cloudaicompanionProject,omitempty"`
}

// OnboardRequest enrolls the user into a tier.
type OnboardRequest struct {
	TierID                  *string         `json:"tierId,omitempty"`
	CloudaicompanionProject *string         `json:"cloudaicompanionProject,omitempty"`
	Metadata                *ClientMetadata `json:"metadata,omitempty"`
}

// OnboardResponse carries the companion project created or selected.
type OnboardResponse struct {
	CloudaicompanionProject *CompanionProject `json:"cloudaicompanionProject,omitempty"`
}

// LongRunningOperation is the polled envelope of the onboard call.
type LongRunningOperation struct {
	Name     string           `json:"name,omitempty"`
	Done     bool             `json:"done"`
	Response *OnboardResponse `json:"response,omitempty"`
}

// CompanionProject is the cloud project backing an onboarded user.
type CompanionProject struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Tier and metadata protocol constants.
const (
	TierFree     = "free-tier"
	TierLegacy   = "legacy-tier"
	TierStandard = "standard-tier"

	ideTypeUnspecified  = "IDE_UNSPECIFIED"
	platformUnspecified = "PLATFORM_UNSPECIFIED"
	pluginTypeGemini    = "GEMINI"
)

// ErrProjectRequired is returned when the user's tier needs an explicitly
// configured cloud project and none was supplied.
type ErrProjectRequired struct{}

func (*ErrProjectRequired) Error() string {
	return "this account requires setting the GOOGLE_CLOUD_PROJECT env var before setup"
}

func boolPtr(b bool) *bool { return &b }

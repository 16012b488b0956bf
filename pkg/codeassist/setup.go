package codeassist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const onboardPollInterval = 5 * time.Second

// SetupUser runs the onboarding flow and returns the companion project the
// user generates under, creating one when necessary and polling the
// long-running onboard operation until it completes.
func (s *Server) SetupUser(ctx context.Context) (string, error) {
	projectID, metadata := onboardingContext()

	loadRes, err := s.load(ctx, projectID, metadata)
	if err != nil {
		return "", fmt.Errorf("loadCodeAssist failed: %w", err)
	}

	if project, ok := existingProject(loadRes, projectID); ok {
		s.log.Debug().Str("project", project).Msg("user already onboarded")
		return project, nil
	}

	tier := onboardTier(loadRes)
	if tier.UserDefinedCloudaicompanionProject != nil && *tier.UserDefinedCloudaicompanionProject && projectID == nil {
		return "", &ErrProjectRequired{}
	}

	s.log.Info().Str("tier", tier.ID).Msg("onboarding user")
	return s.onboard(ctx, tier, projectID, metadata)
}

func onboardingContext() (*string, ClientMetadata) {
	var projectID *string
	if id := os.Getenv("GOOGLE_CLOUD_PROJECT"); id != "" {
		projectID = &id
	}
	metadata := ClientMetadata{
		IDEType:    ideTypeUnspecified,
		Platform:   platformUnspecified,
		PluginType: pluginTypeGemini,
	}
	return projectID, metadata
}

// existingProject returns the project of an already-onboarded user.
func existingProject(loadRes *LoadResponse, projectID *string) (string, bool) {
	if loadRes.CurrentTier == nil {
		return "", false
	}
	if loadRes.CloudaicompanionProject != nil && *loadRes.CloudaicompanionProject != "" {
		return *loadRes.CloudaicompanionProject, true
	}
	if projectID != nil && *projectID != "" {
		return *projectID, true
	}
	return "", false
}

// onboardTier picks the tier to enroll into: the default allowed tier, or a
// legacy tier requiring a user-defined project when none is marked default.
func onboardTier(loadRes *LoadResponse) *UserTier {
	for i := range loadRes.AllowedTiers {
		tier := &loadRes.AllowedTiers[i]
		if tier.IsDefault != nil && *tier.IsDefault {
			return tier
		}
	}
	return &UserTier{
		ID:                                 TierLegacy,
		UserDefinedCloudaicompanionProject: boolPtr(true),
	}
}

func (s *Server) load(ctx context.Context, projectID *string, metadata ClientMetadata) (*LoadResponse, error) {
	reqBody := LoadRequest{
		CloudaicompanionProject: projectID,
		Metadata:                metadata,
	}
	resp, err := s.post(ctx, "loadCodeAssist", reqBody, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, s.apiError(resp, "loadCodeAssist")
	}

	var loadRes LoadResponse
	if err := json.NewDecoder(resp.Body).Decode(&loadRes); err != nil {
		return nil, fmt.Errorf("failed to decode loadCodeAssist response: %w", err)
	}
	return &loadRes, nil
}

func (s *Server) onboard(ctx context.Context, tier *UserTier, projectID *string, metadata ClientMetadata) (string, error) {
	onboardReq := OnboardRequest{
		TierID:   &tier.ID,
		Metadata: &metadata,
	}
	// The free tier uses a managed project; others need the user's own.
	if tier.ID != TierFree {
		onboardReq.CloudaicompanionProject = projectID
		if projectID != nil {
			metadata.DuetProject = *projectID
			onboardReq.Metadata = &metadata
		}
	}

	for {
		lro, err := s.onboardOnce(ctx, onboardReq)
		if err != nil {
			return "", fmt.Errorf("onboardUser failed: %w", err)
		}
		if lro.Done {
			if lro.Response != nil && lro.Response.CloudaicompanionProject != nil {
				return lro.Response.CloudaicompanionProject.ID, nil
			}
			if projectID != nil {
				return *projectID, nil
			}
			return "", fmt.Errorf("onboarding finished without a companion project")
		}

		s.log.Debug().Msg("onboarding in progress, polling")
		select {
		case <-time.After(onboardPollInterval):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func (s *Server) onboardOnce(ctx context.Context, req OnboardRequest) (*LongRunningOperation, error) {
	resp, err := s.post(ctx, "onboardUser", req, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, s.apiError(resp, "onboardUser")
	}

	var lro LongRunningOperation
	if err := json.NewDecoder(resp.Body).Decode(&lro); err != nil {
		return nil, fmt.Errorf("failed to decode onboardUser response: %w", err)
	}
	return &lro, nil
}

package codeassist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOnboarding serves the loadCodeAssist/onboardUser pair from canned
// responses and records what the client sent.
type fakeOnboarding struct {
	load         LoadResponse
	onboard      LongRunningOperation
	loadCalls    int
	onboardCalls int
	onboardReq   OnboardRequest
}

func (f *fakeOnboarding) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/v1internal:loadCodeAssist":
		f.loadCalls++
		_ = json.NewEncoder(w).Encode(f.load)
	case "/v1internal:onboardUser":
		f.onboardCalls++
		_ = json.NewDecoder(r.Body).Decode(&f.onboardReq)
		_ = json.NewEncoder(w).Encode(f.onboard)
	default:
		http.NotFound(w, r)
	}
}

func onboardedServer(t *testing.T, fake *fakeOnboarding) (*Server, error) {
	t.Helper()
	backend := httptest.NewServer(fake)
	t.Cleanup(backend.Close)

	return NewContentGenerator(context.Background(), Options{
		TokenSource: staticToken(),
		BaseURL:     backend.URL,
	})
}

func TestSetupUser(t *testing.T) {
	t.Run("already onboarded user keeps existing project", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "")
		project := "existing-project"
		fake := &fakeOnboarding{
			load: LoadResponse{
				CurrentTier:             &UserTier{ID: TierStandard},
				CloudaicompanionProject: &project,
			},
		}

		server, err := onboardedServer(t, fake)
		require.NoError(t, err)
		assert.Equal(t, "existing-project", server.Project())
		assert.Equal(t, 1, fake.loadCalls)
		assert.Zero(t, fake.onboardCalls)
	})

	t.Run("onboarded user without companion project uses env project", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")
		fake := &fakeOnboarding{
			load: LoadResponse{CurrentTier: &UserTier{ID: TierStandard}},
		}

		server, err := onboardedServer(t, fake)
		require.NoError(t, err)
		assert.Equal(t, "env-project", server.Project())
	})

	t.Run("new free-tier user gets a managed project", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "")
		fake := &fakeOnboarding{
			load: LoadResponse{
				AllowedTiers: []UserTier{
					{ID: TierStandard},
					{ID: TierFree, IsDefault: boolPtr(true)},
				},
			},
			onboard: LongRunningOperation{
				Done: true,
				Response: &OnboardResponse{
					CloudaicompanionProject: &CompanionProject{ID: "managed-project"},
				},
			},
		}

		server, err := onboardedServer(t, fake)
		require.NoError(t, err)
		assert.Equal(t, "managed-project", server.Project())
		assert.Equal(t, 1, fake.onboardCalls)
		require.NotNil(t, fake.onboardReq.TierID)
		assert.Equal(t, TierFree, *fake.onboardReq.TierID)
		assert.Nil(t, fake.onboardReq.CloudaicompanionProject, "free tier sends no user project")
	})

	t.Run("non-default tiers send the user project", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "user-project")
		fake := &fakeOnboarding{
			load: LoadResponse{
				AllowedTiers: []UserTier{{ID: TierStandard, IsDefault: boolPtr(true)}},
			},
			onboard: LongRunningOperation{
				Done: true,
				Response: &OnboardResponse{
					CloudaicompanionProject: &CompanionProject{ID: "user-project"},
				},
			},
		}

		server, err := onboardedServer(t, fake)
		require.NoError(t, err)
		assert.Equal(t, "user-project", server.Project())
		require.NotNil(t, fake.onboardReq.CloudaicompanionProject)
		assert.Equal(t, "user-project", *fake.onboardReq.CloudaicompanionProject)
	})

	t.Run("project-requiring tier without project fails", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "")
		fake := &fakeOnboarding{
			load: LoadResponse{
				AllowedTiers: []UserTier{{
					ID:                                 TierLegacy,
					IsDefault:                          boolPtr(true),
					UserDefinedCloudaicompanionProject: boolPtr(true),
				}},
			},
		}

		_, err := onboardedServer(t, fake)
		require.Error(t, err)

		var projectErr *ErrProjectRequired
		assert.ErrorAs(t, err, &projectErr)
		assert.Zero(t, fake.onboardCalls)
	})
}

func TestOnboardTier(t *testing.T) {
	t.Run("picks the default tier", func(t *testing.T) {
		tier := onboardTier(&LoadResponse{
			AllowedTiers: []UserTier{
				{ID: TierFree},
				{ID: TierStandard, IsDefault: boolPtr(true)},
			},
		})
		assert.Equal(t, TierStandard, tier.ID)
	})

	t.Run("falls back to legacy when none is default", func(t *testing.T) {
		tier := onboardTier(&LoadResponse{})
		assert.Equal(t, TierLegacy, tier.ID)
		require.NotNil(t, tier.UserDefinedCloudaicompanionProject)
		assert.True(t, *tier.UserDefinedCloudaicompanionProject)
	})
}

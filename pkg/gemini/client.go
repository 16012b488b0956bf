// Package gemini implements the SDK-compatible backend client for the
// standard host and its cloud-hosted variant. Its Models surface implements
// the uniform generator contract directly, so the factory returns it without
// any translation layer.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/genrelay/genrelay/internal/httpx"
	"github.com/genrelay/genrelay/pkg/genai"
)

const (
	standardBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	cloudHostFormat = "https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google"

	envCloudProject  = "GOOGLE_CLOUD_PROJECT"
	envCloudLocation = "GOOGLE_CLOUD_LOCATION"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	APIKey string

	// VertexAI routes requests to the cloud-hosted variant. Project and
	// Location default from the environment when unset, matching the vendor
	// SDK's own behavior.
	VertexAI bool
	Project  string
	Location string

	// BaseURL overrides the derived host, e.g. for proxies or tests.
	BaseURL string

	UserAgent string
	Timeout   time.Duration
	Logger    zerolog.Logger
}

// Client is the vendor client for the two shape-compatible modes. The
// generation-capable surface lives on Models.
type Client struct {
	config  ClientConfig
	baseURL string
	http    *httpx.Client
	limiter *rate.Limiter

	// Models implements genai.ContentGenerator.
	Models *Models
}

// NewClient creates a Client for the direct or cloud-hosted backend.
func NewClient(cfg ClientConfig) *Client {
	if cfg.VertexAI {
		if cfg.Project == "" {
			cfg.Project = envLookup(envCloudProject)
		}
		if cfg.Location == "" {
			cfg.Location = envLookup(envCloudLocation)
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.VertexAI {
			baseURL = fmt.Sprintf(cloudHostFormat, cfg.Location, cfg.Project, cfg.Location)
		} else {
			baseURL = standardBaseURL
		}
	}

	client := &Client{
		config:  cfg,
		baseURL: baseURL,
		http: httpx.NewClient(httpx.Config{
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
			Logger:    cfg.Logger,
		}),
		// Client-side limit matching the free tier (15 RPM); the paid tiers
		// simply never hit it.
		limiter: rate.NewLimiter(rate.Every(time.Minute/15), 15),
	}
	client.Models = &Models{client: client}
	return client
}

// Models is the generation-capable sub-object of Client.
type Models struct {
	client *Client
}

var _ genai.ContentGenerator = (*Models)(nil)

// generatePayload is the wire request for generateContent and its streaming
// counterpart.
type generatePayload struct {
	Contents         []*genai.Content      `json:"contents"`
	GenerationConfig *genai.GenerateConfig `json:"generationConfig,omitempty"`
}

// countTokensPayload is the wire request for countTokens.
type countTokensPayload struct {
	Contents []*genai.Content `json:"contents"`
}

// batchEmbedPayload is the wire request for batchEmbedContents.
type batchEmbedPayload struct {
	Requests []embedRequest `json:"requests"`
}

type embedRequest struct {
	Model   string         `json:"model"`
	Content *genai.Content `json:"content"`
}

func (m *Models) GenerateContent(ctx context.Context, req *genai.GenerateContentRequest) (*genai.GenerateContentResponse, error) {
	if err := m.client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload := generatePayload{
		Contents:         genai.NormalizeContents(req.Contents),
		GenerationConfig: req.Config,
	}
	url := m.client.endpoint(req.Model, "generateContent")

	resp, err := m.client.http.PostJSON(ctx, url, payload)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, m.client.apiError(resp, "generateContent")
	}

	var out genai.GenerateContentResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *Models) GenerateContentStream(ctx context.Context, req *genai.GenerateContentRequest) (genai.ResponseStream, error) {
	if err := m.client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload := generatePayload{
		Contents:         genai.NormalizeContents(req.Contents),
		GenerationConfig: req.Config,
	}
	url := m.client.endpoint(req.Model, "streamGenerateContent") + "&alt=sse"

	resp, err := m.client.http.PostJSON(ctx, url, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, m.client.apiError(resp, "streamGenerateContent")
	}
	return newSSEStream(resp), nil
}

func (m *Models) CountTokens(ctx context.Context, req *genai.CountTokensRequest) (*genai.CountTokensResponse, error) {
	payload := countTokensPayload{Contents: genai.NormalizeContents(req.Contents)}
	url := m.client.endpoint(req.Model, "countTokens")

	resp, err := m.client.http.PostJSON(ctx, url, payload)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, m.client.apiError(resp, "countTokens")
	}

	var out genai.CountTokensResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *Models) EmbedContent(ctx context.Context, req *genai.EmbedContentRequest) (*genai.EmbedContentResponse, error) {
	contents := genai.NormalizeContents(req.Contents)
	payload := batchEmbedPayload{Requests: make([]embedRequest, 0, len(contents))}
	for _, content := range contents {
		payload.Requests = append(payload.Requests, embedRequest{
			Model:   "models/" + req.Model,
			Content: content,
		})
	}
	url := m.client.endpoint(req.Model, "batchEmbedContents")

	resp, err := m.client.http.PostJSON(ctx, url, payload)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, m.client.apiError(resp, "embedContent")
	}

	var out genai.EmbedContentResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// endpoint builds the model operation URL with the key attached.
func (c *Client) endpoint(model, operation string) string {
	return fmt.Sprintf("%s/models/%s:%s?key=%s", c.baseURL, model, operation, c.config.APIKey)
}

// apiError converts a non-200 response into a categorized gateway error.
func (c *Client) apiError(resp *http.Response, operation string) error {
	body := httpx.ReadErrorBody(resp)
	return genai.NewError(genai.BackendGemini, genai.ClassifyHTTPStatus(resp.StatusCode),
		fmt.Sprintf("%s failed: %s", operation, body)).
		WithStatusCode(resp.StatusCode).
		WithOperation(operation)
}

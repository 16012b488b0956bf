package codeassist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/genrelay/genrelay/internal/httpx"
	"github.com/genrelay/genrelay/internal/sse"
	"github.com/genrelay/genrelay/pkg/genai"
)

const (
	defaultBaseURL = "https://cloudcode-pa.googleapis.com"
	apiVersion     = "v1internal"
)

// Options configures the identity-login generator.
type Options struct {
	// TokenSource supplies OAuth tokens for the logged-in identity.
	// Required; the login flow itself happens out of band.
	TokenSource oauth2.TokenSource

	// Project pins a companion project, skipping discovery/onboarding.
	Project string

	// SessionID ties requests to a caller session. Defaults to a new UUID.
	SessionID string

	// UserAgent is the caller-identifying header bundle.
	UserAgent string

	// BaseURL overrides the cloudcode host, e.g. for tests.
	BaseURL string

	Timeout time.Duration
	Logger  zerolog.Logger
}

// Server is the identity-backed content generator. It satisfies the uniform
// contract; embeddings are not exposed by the cloudcode surface and fail
// loudly.
type Server struct {
	http      *http.Client
	baseURL   string
	project   string
	sessionID string
	userAgent string
	log       zerolog.Logger
}

var _ genai.ContentGenerator = (*Server)(nil)

// NewContentGenerator builds the login-backed generator, discovering and
// onboarding the user's companion project when none is pinned.
func NewContentGenerator(ctx context.Context, opts Options) (*Server, error) {
	if opts.TokenSource == nil {
		return nil, genai.NewError(genai.BackendCodeAssist, genai.ErrCodeAuthentication,
			"no token source: login has not been completed")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	httpClient := oauth2.NewClient(ctx, opts.TokenSource)
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}

	server := &Server{
		http:      httpClient,
		baseURL:   baseURL,
		project:   opts.Project,
		sessionID: sessionID,
		userAgent: opts.UserAgent,
		log:       opts.Logger,
	}

	if server.project == "" {
		project, err := server.SetupUser(ctx)
		if err != nil {
			return nil, err
		}
		server.project = project
	}
	return server, nil
}

// Project returns the companion project this generator operates under.
func (s *Server) Project() string {
	return s.project
}

func (s *Server) GenerateContent(ctx context.Context, req *genai.GenerateContentRequest) (*genai.GenerateContentResponse, error) {
	wrapper := s.wrapRequest(req)
	resp, err := s.post(ctx, "generateContent", wrapper, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, s.apiError(resp, "generateContent")
	}

	var out generateResponseWrapper
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out.Response, nil
}

func (s *Server) GenerateContentStream(ctx context.Context, req *genai.GenerateContentRequest) (genai.ResponseStream, error) {
	wrapper := s.wrapRequest(req)
	resp, err := s.post(ctx, "streamGenerateContent", wrapper, "alt=sse")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, s.apiError(resp, "streamGenerateContent")
	}
	return sse.New(resp, func(data []byte) (*genai.GenerateContentResponse, error) {
		var chunk generateResponseWrapper
		if err := json.Unmarshal(data, &chunk); err != nil {
			return nil, err
		}
		return &chunk.Response, nil
	}), nil
}

func (s *Server) CountTokens(ctx context.Context, req *genai.CountTokensRequest) (*genai.CountTokensResponse, error) {
	wrapper := countTokensRequestWrapper{
		Request: countTokensRequest{
			Model:    "models/" + req.Model,
			Contents: genai.NormalizeContents(req.Contents),
		},
	}
	resp, err := s.post(ctx, "countTokens", wrapper, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, s.apiError(resp, "countTokens")
	}

	var out genai.CountTokensResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

func (s *Server) EmbedContent(ctx context.Context, req *genai.EmbedContentRequest) (*genai.EmbedContentResponse, error) {
	return nil, genai.NewNotImplementedError(genai.BackendCodeAssist, "embedding not implemented").
		WithOperation("embedContent")
}

func (s *Server) wrapRequest(req *genai.GenerateContentRequest) generateRequestWrapper {
	return generateRequestWrapper{
		Model:        req.Model,
		Project:      s.project,
		UserPromptID: uuid.NewString(),
		Request: generateRequest{
			Contents:         genai.NormalizeContents(req.Contents),
			GenerationConfig: req.Config,
			SessionID:        s.sessionID,
		},
	}
}

// post issues a cloudcode method call, e.g. POST {base}/v1internal:method.
func (s *Server) post(ctx context.Context, method string, body any, query string) (*http.Response, error) {
	url := fmt.Sprintf("%s/%s:%s", s.baseURL, apiVersion, method)
	if query != "" {
		url += "?" + query
	}
	req, err := httpx.NewJSONRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	return s.http.Do(req)
}

func (s *Server) apiError(resp *http.Response, operation string) error {
	body := httpx.ReadErrorBody(resp)
	return genai.NewError(genai.BackendCodeAssist, genai.ClassifyHTTPStatus(resp.StatusCode),
		fmt.Sprintf("%s failed: %s", operation, body)).
		WithStatusCode(resp.StatusCode).
		WithOperation(operation)
}

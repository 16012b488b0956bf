package gemini

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// FallbackModel is substituted when the requested model is unavailable.
const FallbackModel = "gemini-2.5-flash"

// resolverBaseURL is variable so tests can point the probe at a fake server.
var resolverBaseURL = standardBaseURL

// ResolveEffectiveModel probes whether the requested model is usable with
// the given key and returns the model string to use. A missing model or a
// rate-limited tier falls back to FallbackModel; transport failures keep the
// requested model, since the probe is best-effort and must never block a
// session from starting.
func ResolveEffectiveModel(ctx context.Context, apiKey, model string) string {
	if apiKey == "" || model == "" {
		return model
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s?key=%s", resolverBaseURL, model, apiKey)
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, url, nil)
	if err != nil {
		return model
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return model
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusTooManyRequests:
		if model == FallbackModel {
			return model
		}
		return FallbackModel
	default:
		return model
	}
}

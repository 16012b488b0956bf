package gemini

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/genrelay/genrelay/internal/sse"
	"github.com/genrelay/genrelay/pkg/genai"
)

// newSSEStream decodes streamGenerateContent events, which carry the
// normalized response shape directly.
func newSSEStream(resp *http.Response) *sse.Stream {
	return sse.New(resp, func(data []byte) (*genai.GenerateContentResponse, error) {
		var chunk genai.GenerateContentResponse
		if err := json.Unmarshal(data, &chunk); err != nil {
			return nil, err
		}
		return &chunk, nil
	})
}

// decodeJSON decodes a response body; closing it is the caller's concern.
func decodeJSON(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func envLookup(name string) string {
	return os.Getenv(name)
}

package sse

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genrelay/genrelay/pkg/genai"
)

func parseDirect(data []byte) (*genai.GenerateContentResponse, error) {
	var chunk genai.GenerateContentResponse
	if err := json.Unmarshal(data, &chunk); err != nil {
		return nil, err
	}
	return &chunk, nil
}

func sseResponse(t *testing.T, body string) *http.Response {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	return resp
}

func TestStream(t *testing.T) {
	chunkJSON := func(text string) string {
		return `{"candidates":[{"content":{"parts":[{"text":"` + text + `"}]}}]}`
	}

	t.Run("yields chunks in order then EOF", func(t *testing.T) {
		body := strings.Join([]string{
			"data: " + chunkJSON("one"),
			"",
			"data: " + chunkJSON("two"),
			"",
		}, "\n")
		stream := New(sseResponse(t, body), parseDirect)
		defer func() { _ = stream.Close() }()

		first, err := stream.Next()
		require.NoError(t, err)
		assert.Equal(t, "one", first.Text())

		second, err := stream.Next()
		require.NoError(t, err)
		assert.Equal(t, "two", second.Text())

		_, err = stream.Next()
		assert.ErrorIs(t, err, io.EOF)
		_, err = stream.Next()
		assert.ErrorIs(t, err, io.EOF, "EOF is sticky")
	})

	t.Run("skips comments, blank lines and non-data fields", func(t *testing.T) {
		body := strings.Join([]string{
			": keepalive",
			"event: message",
			"id: 7",
			"",
			"data:" + chunkJSON("payload"),
			"",
		}, "\n")
		stream := New(sseResponse(t, body), parseDirect)
		defer func() { _ = stream.Close() }()

		chunk, err := stream.Next()
		require.NoError(t, err)
		assert.Equal(t, "payload", chunk.Text())
	})

	t.Run("skips malformed data lines", func(t *testing.T) {
		body := strings.Join([]string{
			"data: {not json",
			"data: " + chunkJSON("good"),
			"",
		}, "\n")
		stream := New(sseResponse(t, body), parseDirect)
		defer func() { _ = stream.Close() }()

		chunk, err := stream.Next()
		require.NoError(t, err)
		assert.Equal(t, "good", chunk.Text())
	})

	t.Run("close is idempotent and ends the stream", func(t *testing.T) {
		stream := New(sseResponse(t, "data: "+chunkJSON("x")+"\n"), parseDirect)
		require.NoError(t, stream.Close())
		require.NoError(t, stream.Close())

		_, err := stream.Next()
		assert.ErrorIs(t, err, io.EOF)
	})
}

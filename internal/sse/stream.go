// Package sse decodes server-sent event streams into normalized partial
// responses. Backends that wrap their payloads differently supply their own
// parse function.
package sse

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/genrelay/genrelay/pkg/genai"
)

// ParseFunc converts one SSE data payload into a partial response.
type ParseFunc func(data []byte) (*genai.GenerateContentResponse, error)

// Stream implements genai.ResponseStream over an SSE response body.
type Stream struct {
	response *http.Response
	reader   *bufio.Reader
	parse    ParseFunc
	done     bool
	mu       sync.Mutex
}

var _ genai.ResponseStream = (*Stream)(nil)

// New wraps an open SSE response. The stream owns the response body.
func New(resp *http.Response, parse ParseFunc) *Stream {
	return &Stream{
		response: resp,
		reader:   bufio.NewReader(resp.Body),
		parse:    parse,
	}
}

// Next returns the next partial response, or io.EOF once the backend closes
// the stream. Malformed data lines are skipped rather than aborting the
// stream.
func (s *Stream) Next() (*genai.GenerateContentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil, io.EOF
	}

	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				s.done = true
				return nil, io.EOF
			}
			return nil, fmt.Errorf("error reading stream: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		var data string
		switch {
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimPrefix(line, "data:")
		default:
			// non-data SSE fields (event:, id:, retry:)
			continue
		}

		chunk, err := s.parse([]byte(data))
		if err != nil {
			continue
		}
		return chunk, nil
	}
}

// Close releases the underlying response body. Safe to call more than once.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	return s.response.Body.Close()
}

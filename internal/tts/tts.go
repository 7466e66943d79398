package tts

import (
	"context"
	"fmt"
)

// Client defines the interface for text-to-speech providers.
type Client interface {
	// Synthesize converts text to speech and returns compressed audio
	// bytes (audio/mpeg). Every call resynthesizes; nothing is cached.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// APIError is returned when the provider rejects a request or fails,
// carrying the provider's diagnostic detail verbatim.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("text-to-speech API error: %s - %s", e.Status, e.Body)
}

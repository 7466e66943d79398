package stt

import (
	"context"
	"fmt"
)

// Client defines the interface for speech-to-text providers.
type Client interface {
	// Transcribe converts a complete audio recording to text and returns
	// the top alternative of each result segment, in service order.
	// Audio must match the encoding the provider was configured for.
	Transcribe(ctx context.Context, audio []byte) ([]string, error)
}

// APIError is returned when the provider rejects a request or fails. The
// provider's diagnostic detail is preserved verbatim: it is the primary
// debugging signal for recognition problems.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("speech API error: %s - %s", e.Status, e.Body)
}

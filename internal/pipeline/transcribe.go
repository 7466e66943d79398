package pipeline

import (
	"context"
	"log"
	"strings"

	"github.com/raulrodriguez98/TFG/internal/eventlog"
	"github.com/raulrodriguez98/TFG/internal/interaction"
	"github.com/raulrodriguez98/TFG/internal/stt"
)

// FallbackTranscript is returned when the speech service produces zero
// results. Pollers treat this exact string as "nothing usable was said"
// rather than an error, so it must stay stable.
const FallbackTranscript = "No se pudo transcribir el audio (sin resultados)."

// Transcriber reads the pending recording, sends it to the speech service
// and consumes the artifact on success.
type Transcriber struct {
	store    *interaction.Store
	client   stt.Client
	eventLog *eventlog.Logger
	logger   *log.Logger
}

// NewTranscriber creates a transcription pipeline over the given store and
// speech client.
func NewTranscriber(store *interaction.Store, client stt.Client, eventLog *eventlog.Logger, logger *log.Logger) *Transcriber {
	return &Transcriber{store: store, client: client, eventLog: eventLog, logger: logger}
}

// Transcribe runs one recording through speech recognition.
//
// The artifact must already exist (interaction.ErrNoArtifact otherwise).
// The service is called exactly once; on provider failure the artifact is
// left in place so the poller can retry at its own cadence. On success,
// including the zero-result fallback, the consumed artifact is deleted
// best-effort.
func (t *Transcriber) Transcribe(ctx context.Context) (string, error) {
	audio, err := t.store.Artifact()
	if err != nil {
		return "", err
	}

	interactionID := t.store.InteractionID()
	t.eventLog.LogAsync(interactionID, eventlog.EventTranscriptionStarted, map[string]any{
		"audio_bytes": len(audio),
	})

	segments, err := t.client.Transcribe(ctx, audio)
	if err != nil {
		t.logger.Printf("pipeline: transcription failed: %v", err)
		t.eventLog.LogAsync(interactionID, eventlog.EventTranscriptionFailed, map[string]any{
			"error": err.Error(),
		})
		return "", err
	}

	transcript := FallbackTranscript
	if len(segments) > 0 {
		transcript = strings.Join(segments, "\n")
	} else {
		t.logger.Printf("pipeline: speech service returned no results")
	}

	t.store.DeleteArtifact()

	t.eventLog.LogAsync(interactionID, eventlog.EventTranscriptionCompleted, map[string]any{
		"transcript": transcript,
		"segments":   len(segments),
	})
	return transcript, nil
}

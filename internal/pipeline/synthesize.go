package pipeline

import (
	"context"
	"log"

	"github.com/raulrodriguez98/TFG/internal/eventlog"
	"github.com/raulrodriguez98/TFG/internal/interaction"
	"github.com/raulrodriguez98/TFG/internal/tts"
)

// Synthesizer turns the stored chatbot reply into spoken audio.
type Synthesizer struct {
	store    *interaction.Store
	client   tts.Client
	eventLog *eventlog.Logger
	logger   *log.Logger
}

// NewSynthesizer creates a synthesis pipeline over the given store and TTS
// client.
func NewSynthesizer(store *interaction.Store, client tts.Client, eventLog *eventlog.Logger, logger *log.Logger) *Synthesizer {
	return &Synthesizer{store: store, client: client, eventLog: eventLog, logger: logger}
}

// Synthesize converts the current reply to MP3 bytes. A reply must have
// been stored (interaction.ErrNoReply otherwise). The reply slot is never
// cleared: repeated calls before a new reply arrives resynthesize the same
// text.
func (s *Synthesizer) Synthesize(ctx context.Context) ([]byte, error) {
	text, err := s.store.Reply()
	if err != nil {
		return nil, err
	}

	interactionID := s.store.InteractionID()

	audio, err := s.client.Synthesize(ctx, text)
	if err != nil {
		s.logger.Printf("pipeline: synthesis failed: %v", err)
		s.eventLog.LogAsync(interactionID, eventlog.EventSynthesisFailed, map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	s.eventLog.LogAsync(interactionID, eventlog.EventSynthesisCompleted, map[string]any{
		"audio_bytes": len(audio),
		"text_length": len(text),
	})
	return audio, nil
}

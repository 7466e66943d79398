package eventlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EventType represents the type of interaction event
type EventType string

const (
	EventAudioReceived          EventType = "audio_received"
	EventAudioServed            EventType = "audio_served"
	EventTranscriptionStarted   EventType = "transcription_started"
	EventTranscriptionCompleted EventType = "transcription_completed"
	EventTranscriptionFailed    EventType = "transcription_failed"
	EventReplyReceived          EventType = "reply_received"
	EventSynthesisCompleted     EventType = "synthesis_completed"
	EventSynthesisFailed        EventType = "synthesis_failed"
)

// Logger provides event logging to the database. It is diagnostics only:
// interaction state itself never lives in the database.
type Logger struct {
	db *pgxpool.Pool
}

// New creates a new event logger. A nil pool disables logging.
func New(db *pgxpool.Pool) *Logger {
	return &Logger{db: db}
}

// Log writes an event to the database synchronously
func (l *Logger) Log(ctx context.Context, interactionID string, eventType EventType, data map[string]any) error {
	if l == nil || l.db == nil || interactionID == "" {
		return nil // Silently skip if no DB or interaction ID
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		dataJSON = []byte("{}")
	}

	_, err = l.db.Exec(ctx, `
		INSERT INTO interaction_events (interaction_id, event_type, event_data)
		VALUES ($1, $2, $3)
	`, interactionID, string(eventType), dataJSON)

	return err
}

// LogAsync logs an event without blocking the caller
func (l *Logger) LogAsync(interactionID string, eventType EventType, data map[string]any) {
	if l == nil || l.db == nil || interactionID == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = l.Log(ctx, interactionID, eventType, data)
	}()
}

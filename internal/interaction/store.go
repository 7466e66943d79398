package interaction

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FreshnessWindow is how long after its last write an audio artifact still
// counts as belonging to the current interaction. Pollers distinguish a new
// recording from an already-handled one by this window alone, so the value
// is part of the wire contract.
const FreshnessWindow = 30 * time.Second

// artifactName is the fixed filename of the pending recording. There is at
// most one artifact at a time; a new upload overwrites the previous one.
const artifactName = "audio.wav"

var (
	ErrNoArtifact = errors.New("no audio artifact stored")
	ErrNoReply    = errors.New("no chatbot reply stored")
	ErrEmptyReply = errors.New("reply text is empty")
)

// State classifies the stored artifact for pollers.
type State string

const (
	StateAbsent State = "no_audio"
	StateFresh  State = "has_audio"
	StateStale  State = "stale_audio"
)

// Store holds the state of the current interaction: the pending audio
// artifact on disk and the most recent chatbot reply in memory. Both are
// single slots with last-write-wins semantics.
type Store struct {
	dir    string
	logger *log.Logger

	mu            sync.RWMutex
	reply         string
	hasReply      bool
	interactionID string
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// ArtifactPath returns the fixed location of the pending recording.
func (s *Store) ArtifactPath() string {
	return filepath.Join(s.dir, artifactName)
}

// PutArtifact overwrites the pending recording unconditionally and assigns a
// fresh interaction ID. The file mtime doubles as the freshness clock.
func (s *Store) PutArtifact(data []byte) (string, error) {
	if err := os.WriteFile(s.ArtifactPath(), data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.interactionID = id
	s.mu.Unlock()
	return id, nil
}

// Artifact returns the full contents of the pending recording.
func (s *Store) Artifact() ([]byte, error) {
	data, err := os.ReadFile(s.ArtifactPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoArtifact
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

// HasArtifact reports whether a pending recording exists.
func (s *Store) HasArtifact() bool {
	_, err := os.Stat(s.ArtifactPath())
	return err == nil
}

// Freshness classifies the pending recording by its last-write time. The
// returned time is the artifact mtime, zero when absent.
func (s *Store) Freshness() (State, time.Time) {
	info, err := os.Stat(s.ArtifactPath())
	if err != nil {
		return StateAbsent, time.Time{}
	}
	if time.Since(info.ModTime()) < FreshnessWindow {
		return StateFresh, info.ModTime()
	}
	return StateStale, info.ModTime()
}

// InteractionID returns the ID assigned to the last accepted upload, or ""
// if none has been accepted since startup.
func (s *Store) InteractionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interactionID
}

// DeleteArtifact removes the pending recording. It is idempotent and best
// effort: a stray file cannot block the next recording since uploads
// overwrite, so failures are logged and swallowed.
func (s *Store) DeleteArtifact() {
	err := os.Remove(s.ArtifactPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Printf("interaction: failed to delete artifact: %v", err)
	}
}

// PutReply stores the latest chatbot reply, trimming surrounding whitespace.
// Empty or whitespace-only text is rejected.
func (s *Store) PutReply(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyReply
	}
	s.mu.Lock()
	s.reply = text
	s.hasReply = true
	s.mu.Unlock()
	return nil
}

// Reply returns the current chatbot reply. Reading never clears the slot;
// synthesis may consume it any number of times.
func (s *Store) Reply() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasReply {
		return "", ErrNoReply
	}
	return s.reply, nil
}

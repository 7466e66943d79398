package interaction

import (
	"errors"
	"io"
	"log"
	"os"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

// backdate pushes the artifact mtime into the past so freshness can be
// tested without sleeping.
func backdate(t *testing.T, s *Store, age time.Duration) {
	t.Helper()
	past := time.Now().Add(-age)
	if err := os.Chtimes(s.ArtifactPath(), past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
}

func TestArtifactLifecycle(t *testing.T) {
	s := newTestStore(t)

	if s.HasArtifact() {
		t.Error("HasArtifact = true before any upload")
	}
	if _, err := s.Artifact(); !errors.Is(err, ErrNoArtifact) {
		t.Errorf("Artifact error = %v, want ErrNoArtifact", err)
	}

	id1, err := s.PutArtifact([]byte("first"))
	if err != nil {
		t.Fatalf("PutArtifact: %v", err)
	}
	if id1 == "" {
		t.Error("PutArtifact returned empty interaction ID")
	}
	if !s.HasArtifact() {
		t.Error("HasArtifact = false after upload")
	}

	// Overwrite semantics: only the most recent payload is readable.
	id2, err := s.PutArtifact([]byte("second"))
	if err != nil {
		t.Fatalf("PutArtifact overwrite: %v", err)
	}
	if id2 == id1 {
		t.Error("overwrite kept the previous interaction ID")
	}
	if s.InteractionID() != id2 {
		t.Errorf("InteractionID = %q, want %q", s.InteractionID(), id2)
	}

	data, err := s.Artifact()
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("Artifact = %q, want %q", data, "second")
	}

	s.DeleteArtifact()
	if s.HasArtifact() {
		t.Error("HasArtifact = true after delete")
	}

	// Idempotent: deleting again must not blow up.
	s.DeleteArtifact()
}

func TestFreshness(t *testing.T) {
	s := newTestStore(t)

	state, mtime := s.Freshness()
	if state != StateAbsent {
		t.Errorf("state = %q before upload, want %q", state, StateAbsent)
	}
	if !mtime.IsZero() {
		t.Errorf("mtime = %v before upload, want zero", mtime)
	}

	if _, err := s.PutArtifact([]byte("audio")); err != nil {
		t.Fatalf("PutArtifact: %v", err)
	}

	state, mtime = s.Freshness()
	if state != StateFresh {
		t.Errorf("state = %q right after upload, want %q", state, StateFresh)
	}
	if mtime.IsZero() {
		t.Error("mtime is zero right after upload")
	}

	// One second past the window it counts as a leftover.
	backdate(t, s, FreshnessWindow+time.Second)
	state, _ = s.Freshness()
	if state != StateStale {
		t.Errorf("state = %q after %v, want %q", state, FreshnessWindow+time.Second, StateStale)
	}

	// A new upload resets the clock.
	if _, err := s.PutArtifact([]byte("audio2")); err != nil {
		t.Fatalf("PutArtifact: %v", err)
	}
	state, _ = s.Freshness()
	if state != StateFresh {
		t.Errorf("state = %q after re-upload, want %q", state, StateFresh)
	}

	s.DeleteArtifact()
	state, _ = s.Freshness()
	if state != StateAbsent {
		t.Errorf("state = %q after delete, want %q", state, StateAbsent)
	}
}

func TestPutReplyValidation(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		want    string
	}{
		{name: "empty", text: "", wantErr: true},
		{name: "whitespace only", text: "   ", wantErr: true},
		{name: "tabs and newlines", text: "\t\n ", wantErr: true},
		{name: "trimmed", text: " hi ", want: "hi"},
		{name: "plain", text: "Hola", want: "Hola"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			err := s.PutReply(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyReply) {
					t.Errorf("PutReply(%q) error = %v, want ErrEmptyReply", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PutReply(%q): %v", tt.text, err)
			}
			got, err := s.Reply()
			if err != nil {
				t.Fatalf("Reply: %v", err)
			}
			if got != tt.want {
				t.Errorf("Reply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplySlot(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Reply(); !errors.Is(err, ErrNoReply) {
		t.Errorf("Reply error = %v before any PutReply, want ErrNoReply", err)
	}

	if err := s.PutReply("primera"); err != nil {
		t.Fatalf("PutReply: %v", err)
	}
	if err := s.PutReply("segunda"); err != nil {
		t.Fatalf("PutReply: %v", err)
	}

	// Last write wins, and reading does not clear the slot.
	for i := 0; i < 3; i++ {
		got, err := s.Reply()
		if err != nil {
			t.Fatalf("Reply: %v", err)
		}
		if got != "segunda" {
			t.Errorf("Reply = %q, want %q", got, "segunda")
		}
	}

	// A rejected write leaves the previous reply intact.
	if err := s.PutReply("  "); !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("PutReply blank error = %v, want ErrEmptyReply", err)
	}
	got, _ := s.Reply()
	if got != "segunda" {
		t.Errorf("Reply after rejected write = %q, want %q", got, "segunda")
	}
}

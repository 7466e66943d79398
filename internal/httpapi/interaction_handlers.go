package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/raulrodriguez98/TFG/internal/eventlog"
	"github.com/raulrodriguez98/TFG/internal/interaction"
	"github.com/raulrodriguez98/TFG/internal/stt"
	"github.com/raulrodriguez98/TFG/internal/tts"
)

// handleUploadAudio receives the device recording as a multipart upload and
// overwrites the pending artifact.
func (r *Router) handleUploadAudio(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, r.cfg.MaxUploadBytes)

	file, header, err := req.FormFile("audio")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			r.logger.Printf("upload: audio exceeds %d byte limit", maxErr.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "audio file too large"})
			return
		}
		r.logger.Printf("upload: no audio file in request: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no audio file received"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		r.logger.Printf("upload: failed to read audio file: %v", err)
		captureError(req, err, "read uploaded audio")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read audio file"})
		return
	}

	id, err := r.store.PutArtifact(data)
	if err != nil {
		r.logger.Printf("upload: failed to store audio: %v", err)
		captureError(req, err, "store uploaded audio")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to store audio file"})
		return
	}

	r.logger.Printf("upload: stored %s (%d bytes), interaction %s", header.Filename, len(data), id)
	r.eventLog.LogAsync(id, eventlog.EventAudioReceived, map[string]any{
		"filename": header.Filename,
		"size":     len(data),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":        "audio received",
		"interaction_id": id,
		"size":           len(data),
	})
}

// handleGetAudio serves the pending recording for raw playback.
func (r *Router) handleGetAudio(w http.ResponseWriter, req *http.Request) {
	data, err := r.store.Artifact()
	if err != nil {
		if errors.Is(err, interaction.ErrNoArtifact) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no audio stored"})
			return
		}
		r.logger.Printf("playback: failed to read audio: %v", err)
		captureError(req, err, "read stored audio")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read audio file"})
		return
	}

	r.eventLog.LogAsync(r.store.InteractionID(), eventlog.EventAudioServed, map[string]any{
		"size": len(data),
	})

	w.Header().Set("Content-Type", "audio/wav")
	_, _ = w.Write(data)
}

// handleTranscribe runs the pending recording through speech recognition.
func (r *Router) handleTranscribe(w http.ResponseWriter, req *http.Request) {
	transcript, err := r.transcriber.Transcribe(req.Context())
	if err != nil {
		if errors.Is(err, interaction.ErrNoArtifact) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no audio to transcribe"})
			return
		}

		var apiErr *stt.APIError
		if errors.As(err, &apiErr) {
			// Provider detail is the primary debugging signal here,
			// so it goes back to the caller verbatim.
			r.discord.NotifyUpstreamFailure(context.Background(), "transcription", apiErr.Body)
			captureError(req, err, "speech-to-text call")
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "failed to transcribe audio",
				"details": apiErr.Body,
				"status":  apiErr.Status,
			})
			return
		}

		r.logger.Printf("transcribe: %v", err)
		captureError(req, err, "transcription pipeline")
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "failed to transcribe audio",
			"details": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"transcript": transcript})
}

// handleCheckInteraction tells the external poller whether a fresh recording
// is waiting. With no session identifiers on the wire, the status string and
// the 30 second window are the whole correlation mechanism.
func (r *Router) handleCheckInteraction(w http.ResponseWriter, req *http.Request) {
	state, lastModified := r.store.Freshness()
	if state == interaction.StateAbsent {
		writeJSON(w, http.StatusOK, map[string]any{"status": state})
		return
	}

	resp := map[string]any{
		"status":       state,
		"lastModified": lastModified.UTC().Format(time.RFC3339Nano),
	}
	// The artifact can outlive its in-memory ID across restarts; the field
	// is omitted rather than sent empty.
	if id := r.store.InteractionID(); id != "" {
		resp["interaction_id"] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleChatbotReply stores the latest chatbot response text.
func (r *Router) handleChatbotReply(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Texto string `json:"texto"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := r.store.PutReply(body.Texto); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reply text is empty"})
		return
	}

	reply, _ := r.store.Reply()
	r.logger.Printf("chatbot reply stored: %s", reply)
	r.eventLog.LogAsync(r.store.InteractionID(), eventlog.EventReplyReceived, map[string]any{
		"text_length": len(reply),
	})
	r.discord.NotifyReply(context.Background(), reply)

	writeJSON(w, http.StatusOK, map[string]string{"message": "reply received"})
}

// handleTTS synthesizes the stored reply and streams back MP3 audio.
func (r *Router) handleTTS(w http.ResponseWriter, req *http.Request) {
	audio, err := r.synthesizer.Synthesize(req.Context())
	if err != nil {
		if errors.Is(err, interaction.ErrNoReply) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no reply to synthesize"})
			return
		}

		var apiErr *tts.APIError
		if errors.As(err, &apiErr) {
			r.discord.NotifyUpstreamFailure(context.Background(), "synthesis", apiErr.Body)
			captureError(req, err, "text-to-speech call")
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "failed to generate audio",
				"details": apiErr.Body,
			})
			return
		}

		r.logger.Printf("tts: %v", err)
		captureError(req, err, "synthesis pipeline")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate audio"})
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", `inline; filename="respuesta.mp3"`)
	_, _ = w.Write(audio)
}

package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/raulrodriguez98/TFG/internal/eventlog"
	"github.com/raulrodriguez98/TFG/internal/interaction"
	"github.com/raulrodriguez98/TFG/internal/notifications"
	"github.com/raulrodriguez98/TFG/internal/pipeline"
)

type RouterConfig struct {
	// MaxUploadBytes caps the multipart audio upload size.
	MaxUploadBytes int64

	// Notifications
	DiscordWebhookURL string
}

type Router struct {
	cfg         RouterConfig
	logger      *log.Logger
	store       *interaction.Store
	transcriber *pipeline.Transcriber
	synthesizer *pipeline.Synthesizer
	eventLog    *eventlog.Logger
	discord     *notifications.Discord
	mux         *http.ServeMux
}

func NewRouter(cfg RouterConfig, logger *log.Logger, store *interaction.Store,
	transcriber *pipeline.Transcriber, synthesizer *pipeline.Synthesizer,
	eventLog *eventlog.Logger) http.Handler {

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}

	r := &Router{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		transcriber: transcriber,
		synthesizer: synthesizer,
		eventLog:    eventLog,
		discord:     notifications.NewDiscord(cfg.DiscordWebhookURL, logger),
		mux:         http.NewServeMux(),
	}

	r.routes()
	return withSentryRecovery(withCORS(r.mux))
}

func (r *Router) routes() {
	// Health check
	r.mux.HandleFunc("GET /healthz", r.handleHealthz)

	// Device upload and raw playback
	r.mux.HandleFunc("POST /api/stt", r.handleUploadAudio)
	r.mux.HandleFunc("GET /api/stt", r.handleGetAudio)

	// Transcription and interaction polling
	r.mux.HandleFunc("GET /api/transcribe", r.handleTranscribe)
	r.mux.HandleFunc("GET /api/check-interaction", r.handleCheckInteraction)

	// Chatbot reply submission and spoken playback
	r.mux.HandleFunc("POST /api/respuesta-chatbot", r.handleChatbotReply)
	r.mux.HandleFunc("GET /api/tts", r.handleTTS)
}

func (r *Router) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withSentryRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(req)
				hub.RecoverWithContext(req.Context(), err)
				hub.Flush(2 * time.Second)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, req)
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// captureError sends an error to Sentry with request context
func captureError(req *http.Request, err error, msg string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(req)
		scope.SetExtra("message", msg)
		sentry.CaptureException(err)
	})
}

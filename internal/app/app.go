package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/raulrodriguez98/TFG/internal/eventlog"
	"github.com/raulrodriguez98/TFG/internal/httpapi"
	"github.com/raulrodriguez98/TFG/internal/interaction"
	"github.com/raulrodriguez98/TFG/internal/pipeline"
	"github.com/raulrodriguez98/TFG/internal/stt"
	"github.com/raulrodriguez98/TFG/internal/tts"
)

type App struct {
	cfg         Config
	logger      *log.Logger
	db          *pgxpool.Pool
	store       *interaction.Store
	eventLog    *eventlog.Logger
	transcriber *pipeline.Transcriber
	synthesizer *pipeline.Synthesizer
	httpClient  *http.Client // Shared HTTP client with connection pooling for the speech providers
}

func New(cfg Config, logger *log.Logger) (*App, error) {
	store, err := interaction.NewStore(cfg.StorageDir, logger)
	if err != nil {
		return nil, err
	}

	// The event log is diagnostics only and entirely optional: without a
	// DATABASE_URL every log call is a no-op.
	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}
	el := eventlog.New(db)

	// Shared HTTP client with connection pooling for the speech providers.
	// Keeps TCP connections alive to reduce latency for repeated calls to
	// the Google APIs. The timeout is the only deadline on provider calls.
	httpClient := &http.Client{
		Timeout: cfg.ProviderTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	speechClient := stt.NewGoogleClient(stt.GoogleConfig{
		APIKey:     cfg.GoogleAPIKey,
		Language:   cfg.SpeechLanguage,
		SampleRate: cfg.AudioSampleRate,
		Model:      cfg.SpeechModel,
		HTTPClient: httpClient,
	})
	voiceClient := tts.NewGoogleClient(tts.GoogleConfig{
		APIKey:     cfg.GoogleAPIKey,
		Language:   cfg.SpeechLanguage,
		Gender:     cfg.TTSVoiceGender,
		HTTPClient: httpClient,
	})

	return &App{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		store:       store,
		eventLog:    el,
		transcriber: pipeline.NewTranscriber(store, speechClient, el, logger),
		synthesizer: pipeline.NewSynthesizer(store, voiceClient, el, logger),
		httpClient:  httpClient,
	}, nil
}

func (a *App) Router() http.Handler {
	routerCfg := httpapi.RouterConfig{
		MaxUploadBytes:    a.cfg.MaxUploadBytes,
		DiscordWebhookURL: a.cfg.DiscordWebhookURL,
	}
	return httpapi.NewRouter(routerCfg, a.logger, a.store, a.transcriber, a.synthesizer, a.eventLog)
}

func (a *App) Close() error {
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

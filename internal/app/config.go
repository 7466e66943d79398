package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	StorageDir  string
	DatabaseURL string // optional, enables the interaction event log
	SentryDSN   string

	// Speech providers (Google Cloud)
	GoogleAPIKey    string
	SpeechLanguage  string
	SpeechModel     string
	AudioSampleRate int

	// TTS voice
	TTSVoiceGender string

	// Provider HTTP behavior
	ProviderTimeout time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Notifications
	DiscordWebhookURL string
}

func LoadConfigFromEnv() Config {
	providerTimeout, err := time.ParseDuration(getenv("PROVIDER_TIMEOUT", "30s"))
	if err != nil {
		providerTimeout = 30 * time.Second
	}

	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":3000"),
		StorageDir:  getenv("STORAGE_DIR", "uploads"),
		DatabaseURL: getenv("DATABASE_URL", ""),
		SentryDSN:   getenv("SENTRY_DSN", ""),

		// Speech providers. The sample rate is a contract with the device
		// recorder: uploads are not validated against it.
		GoogleAPIKey:    getenv("GOOGLE_API_KEY", ""),
		SpeechLanguage:  getenv("SPEECH_LANGUAGE", "es-ES"),
		SpeechModel:     getenv("SPEECH_MODEL", "default"),
		AudioSampleRate: getenvIntClamped("AUDIO_SAMPLE_RATE", 16000, 8000, 48000),

		TTSVoiceGender: getenv("TTS_VOICE_GENDER", "NEUTRAL"),

		ProviderTimeout: providerTimeout,

		MaxUploadBytes: int64(getenvIntClamped("MAX_UPLOAD_BYTES", 10<<20, 1<<10, 100<<20)),

		DiscordWebhookURL: getenv("DISCORD_WEBHOOK_URL", ""),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getenvIntClamped reads an integer env var, clamping it into [min, max].
func getenvIntClamped(k string, def, min, max int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

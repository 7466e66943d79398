package app

import (
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		defValue string
		want     string
	}{
		{
			name:     "env set",
			envKey:   "TEST_ENV_VAR",
			envValue: "custom_value",
			defValue: "default",
			want:     "custom_value",
		},
		{
			name:     "env not set",
			envKey:   "TEST_ENV_VAR_NOTSET",
			envValue: "",
			defValue: "default",
			want:     "default",
		},
		{
			name:     "empty default",
			envKey:   "TEST_ENV_VAR_EMPTY",
			envValue: "",
			defValue: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.envKey, tt.envValue)
			}

			got := getenv(tt.envKey, tt.defValue)
			if got != tt.want {
				t.Errorf("getenv(%q, %q) = %q, want %q", tt.envKey, tt.defValue, got, tt.want)
			}
		})
	}
}

func TestGetenvIntClamped(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      int
		min      int
		max      int
		want     int
	}{
		{name: "value within range", envValue: "500", def: 100, min: 0, max: 1000, want: 500},
		{name: "below min clamps", envValue: "-100", def: 100, min: 0, max: 1000, want: 0},
		{name: "above max clamps", envValue: "5000", def: 100, min: 0, max: 1000, want: 1000},
		{name: "unset uses default", envValue: "", def: 100, min: 0, max: 1000, want: 100},
		{name: "garbage uses default", envValue: "abc", def: 100, min: 0, max: 1000, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_INT_CLAMPED"
			if tt.envValue != "" {
				t.Setenv(key, tt.envValue)
			}
			got := getenvIntClamped(key, tt.def, tt.min, tt.max)
			if got != tt.want {
				t.Errorf("getenvIntClamped = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	cfg := LoadConfigFromEnv()

	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q, want :3000", cfg.HTTPAddr)
	}
	if cfg.StorageDir != "uploads" {
		t.Errorf("StorageDir = %q, want uploads", cfg.StorageDir)
	}
	if cfg.SpeechLanguage != "es-ES" {
		t.Errorf("SpeechLanguage = %q, want es-ES", cfg.SpeechLanguage)
	}
	if cfg.SpeechModel != "default" {
		t.Errorf("SpeechModel = %q, want default", cfg.SpeechModel)
	}
	if cfg.AudioSampleRate != 16000 {
		t.Errorf("AudioSampleRate = %d, want 16000", cfg.AudioSampleRate)
	}
	if cfg.TTSVoiceGender != "NEUTRAL" {
		t.Errorf("TTSVoiceGender = %q, want NEUTRAL", cfg.TTSVoiceGender)
	}
	if cfg.ProviderTimeout != 30*time.Second {
		t.Errorf("ProviderTimeout = %v, want 30s", cfg.ProviderTimeout)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("MaxUploadBytes = %d, want %d", cfg.MaxUploadBytes, 10<<20)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("AUDIO_SAMPLE_RATE", "8000")

	cfg := LoadConfigFromEnv()

	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q, want :9999", cfg.HTTPAddr)
	}
	if cfg.ProviderTimeout != 5*time.Second {
		t.Errorf("ProviderTimeout = %v, want 5s", cfg.ProviderTimeout)
	}
	if cfg.AudioSampleRate != 8000 {
		t.Errorf("AudioSampleRate = %d, want 8000", cfg.AudioSampleRate)
	}
}

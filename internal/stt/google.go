package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const googleSpeechAPIURL = "https://speech.googleapis.com/v1"

// GoogleClient implements the Client interface using Google Cloud
// Speech-to-Text's synchronous recognize endpoint.
type GoogleClient struct {
	apiKey      string
	language    string
	sampleRate  int
	model       string
	useEnhanced bool
	baseURL     string
	httpClient  *http.Client
}

// GoogleConfig holds configuration for the Google speech client.
type GoogleConfig struct {
	APIKey     string
	Language   string // e.g. "es-ES"
	SampleRate int    // must match what the recorder emits, e.g. 16000
	Model      string // "default" has eaten fewer words than the specialized models
	Endpoint   string // override for tests, empty for production
	HTTPClient *http.Client
}

// NewGoogleClient creates a new Google Cloud Speech-to-Text client.
func NewGoogleClient(cfg GoogleConfig) *GoogleClient {
	language := cfg.Language
	if language == "" {
		language = "es-ES"
	}
	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 16000
	}
	model := cfg.Model
	if model == "" {
		model = "default"
	}
	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = googleSpeechAPIURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GoogleClient{
		apiKey:      cfg.APIKey,
		language:    language,
		sampleRate:  sampleRate,
		model:       model,
		useEnhanced: true,
		baseURL:     baseURL,
		httpClient:  httpClient,
	}
}

// recognizeRequest is the speech:recognize request body.
type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

// recognitionConfig fixes linear PCM at 16 kHz. This is a contract with the
// device recorder: no validation happens on upload, so a mismatched encoding
// degrades transcription silently.
type recognitionConfig struct {
	Encoding        string `json:"encoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
	LanguageCode    string `json:"languageCode"`
	Model           string `json:"model"`
	UseEnhanced     bool   `json:"useEnhanced"`
}

type recognitionAudio struct {
	Content string `json:"content"` // base64 audio bytes
}

// recognizeResponse is the speech:recognize response body.
type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"results"`
}

// Transcribe sends the recording to Google and returns the top alternative
// per result segment. The service is invoked exactly once; retry policy
// belongs to the caller.
func (c *GoogleClient) Transcribe(ctx context.Context, audio []byte) ([]string, error) {
	reqBody := recognizeRequest{
		Config: recognitionConfig{
			Encoding:        "LINEAR16",
			SampleRateHertz: c.sampleRate,
			LanguageCode:    c.language,
			Model:           c.model,
			UseEnhanced:     c.useEnhanced,
		},
		Audio: recognitionAudio{
			Content: base64.StdEncoding.EncodeToString(audio),
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/speech:recognize?key=%s", c.baseURL, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(respBody)}
	}

	var recognized recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&recognized); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var segments []string
	for _, result := range recognized.Results {
		if len(result.Alternatives) > 0 {
			segments = append(segments, result.Alternatives[0].Transcript)
		}
	}
	return segments, nil
}

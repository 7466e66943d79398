package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const googleTTSAPIURL = "https://texttospeech.googleapis.com/v1"

// GoogleClient implements the Client interface using Google Cloud
// Text-to-Speech.
type GoogleClient struct {
	apiKey     string
	language   string
	gender     string
	encoding   string
	baseURL    string
	httpClient *http.Client
}

// GoogleConfig holds configuration for the Google TTS client.
type GoogleConfig struct {
	APIKey     string
	Language   string // e.g. "es-ES"
	Gender     string // SSML voice gender, e.g. "NEUTRAL"
	Endpoint   string // override for tests, empty for production
	HTTPClient *http.Client
}

// NewGoogleClient creates a new Google Cloud Text-to-Speech client.
func NewGoogleClient(cfg GoogleConfig) *GoogleClient {
	language := cfg.Language
	if language == "" {
		language = "es-ES"
	}
	gender := cfg.Gender
	if gender == "" {
		gender = "NEUTRAL"
	}
	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = googleTTSAPIURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GoogleClient{
		apiKey:     cfg.APIKey,
		language:   language,
		gender:     gender,
		encoding:   "MP3",
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// synthesizeRequest is the text:synthesize request body.
type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

// synthesizeResponse is the text:synthesize response body. The audio comes
// back base64 encoded.
type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize converts text to MP3 audio. The service is invoked exactly
// once; retry policy belongs to the caller.
func (c *GoogleClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var reqBody synthesizeRequest
	reqBody.Input.Text = text
	reqBody.Voice.LanguageCode = c.language
	reqBody.Voice.SSMLGender = c.gender
	reqBody.AudioConfig.AudioEncoding = c.encoding

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text:synthesize?key=%s", c.baseURL, c.apiKey)
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

	var synthesized synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&synthesized); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(synthesized.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}
	return audio, nil
}

package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/jmalicki/voiceover/internal/config"
)

// OpenAIProvider posts to the /audio/speech endpoint. A paid voice is a
// config change, not a code change.
type OpenAIProvider struct {
	Config *config.Config
}

func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	return &OpenAIProvider{Config: cfg}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Available() bool {
	return p.Config.OpenAIAPIKey != ""
}

// speechSpeed maps words per minute onto the API's speed multiplier,
// clamped to its documented 0.25..4.0 range.
func speechSpeed(wpm int) float64 {
	if wpm <= 0 {
		return 1.0
	}
	speed := float64(wpm) / float64(BaseRateWPM)
	if speed < 0.25 {
		speed = 0.25
	}
	if speed > 4.0 {
		speed = 4.0
	}
	return speed
}

func (p *OpenAIProvider) Synthesize(ctx context.Context, text string, outputPath string, voice string, opts Options) error {
	apiKey := p.Config.OpenAIAPIKey
	if apiKey == "" {
		return fmt.Errorf("OpenAI API Key not configured")
	}

	baseURL := p.Config.OpenAIBaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	url := fmt.Sprintf("%s/audio/speech", baseURL)

	if voice == "" {
		voice = "onyx"
	}

	reqBody := map[string]interface{}{
		"model": "tts-1",
		"input": text,
		"voice": voice,
		"speed": speechSpeed(opts.RateWPM),
	}

	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("OpenAI API failed with status %d: %s", resp.StatusCode, string(body))
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, resp.Body)
	return err
}

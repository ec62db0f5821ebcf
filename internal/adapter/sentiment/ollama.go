// internal/adapter/sentiment/ollama.go

package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaAnalyzer classifies post sentiment with a local Ollama model.
// Output is normalized to Positive, Negative or Neutral.
type OllamaAnalyzer struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// Config holds Ollama settings.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOllamaAnalyzer creates an analyzer against a local Ollama server.
func NewOllamaAnalyzer(cfg Config) *OllamaAnalyzer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OllamaAnalyzer{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Analyze asks the model for a one-word sentiment of the post and its
// top comment.
func (a *OllamaAnalyzer) Analyze(ctx context.Context, body, topComment string) (string, error) {
	prompt := fmt.Sprintf(
		"Classify the overall sentiment of this social media post as exactly one word: Positive, Negative or Neutral.\n\nPost:\n%s",
		body,
	)
	if topComment != "" {
		prompt += fmt.Sprintf("\n\nTop comment:\n%s", topComment)
	}

	payload, err := json.Marshal(generateRequest{
		Model:  a.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status code %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding ollama response: %w", err)
	}

	return normalize(genResp.Response), nil
}

func normalize(response string) string {
	fields := strings.Fields(response)
	if len(fields) == 0 {
		return "Neutral"
	}
	word := strings.Trim(fields[0], ".,!")

	switch strings.ToLower(word) {
	case "positive":
		return "Positive"
	case "negative":
		return "Negative"
	default:
		return "Neutral"
	}
}

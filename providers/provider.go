package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcm-analyzer/backend/extractor"
	"github.com/mcm-analyzer/backend/models"
)

// ErrNoCredentials marks a provider whose API key is not configured.
// It is a per-provider failure and never aborts the overall analysis.
var ErrNoCredentials = errors.New("API key not configured")

// ProviderError wraps any failure of one provider call with the
// provider's display name for the model_error event.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Credentials holds one vendor's API key. A nil *Credentials on a
// Provider is the typed "not configured" state.
type Credentials struct {
	APIKey string
}

// Provider is the uniform adapter around one vendor chat-completion
// API. All nine vendors run through the same Call path, parameterized
// only by their Config.
type Provider struct {
	cfg    Config
	creds  *Credentials
	client *http.Client
}

// New builds a Provider. creds may be nil when the vendor's key is
// absent; calls then fail locally with ErrNoCredentials.
func New(cfg Config, creds *Credentials, client *http.Client) *Provider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Provider{cfg: cfg, creds: creds, client: client}
}

// Name returns the provider's display name.
func (p *Provider) Name() string { return p.cfg.Name }

// Configured reports whether credentials are present.
func (p *Provider) Configured() bool { return p.creds != nil && p.creds.APIKey != "" }

// Call builds the provider's prompt, invokes the vendor endpoint, and
// normalizes the response into a ModelScore. Every failure is returned
// as a *ProviderError.
func (p *Provider) Call(ctx context.Context, content *extractor.ExtractedContent) (models.ModelScore, error) {
	prompt := BuildPrompt(p.cfg.Focus, content)

	raw, err := p.Complete(ctx, prompt)
	if err != nil {
		return models.ModelScore{}, &ProviderError{Provider: p.cfg.Name, Err: err}
	}

	// Models sometimes wrap the JSON in a markdown code fence.
	var parsed struct {
		Score   *int   `json:"score"`
		Insight string `json:"insight"`
	}
	if err := json.Unmarshal([]byte(StripFences(raw)), &parsed); err != nil {
		return models.ModelScore{}, &ProviderError{Provider: p.cfg.Name, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	// A syntactically valid but empty response is tolerated with
	// neutral defaults rather than treated as an error.
	score := 50
	if parsed.Score != nil {
		score = models.ClampScore(*parsed.Score)
	}
	insight := parsed.Insight
	if insight == "" {
		insight = "Analysis completed"
	}

	return models.ModelScore{
		Name:       p.cfg.Name,
		Logo:       p.cfg.Meta.Logo,
		Score:      score,
		Color:      p.cfg.Meta.Color,
		BgGradient: p.cfg.Meta.BgGradient,
		Insight:    insight,
		Category:   p.cfg.Meta.Category,
		IsFallback: false,
	}, nil
}

// Complete sends one chat-completion request and returns the raw text
// of the model's reply.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	if !p.Configured() {
		return "", ErrNoCredentials
	}
	return p.CompleteWith(ctx, prompt, p.cfg.Temperature, p.cfg.MaxTokens)
}

// CompleteWith is Complete with an explicit sampling temperature and
// output-token budget, for callers with generative (rather than
// scoring) workloads.
func (p *Provider) CompleteWith(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if !p.Configured() {
		return "", ErrNoCredentials
	}

	reqBody, endpoint, err := p.encodeRequest(prompt, temperature, maxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	switch p.cfg.Wire {
	case WireAnthropic:
		req.Header.Set("x-api-key", p.creds.APIKey)
		req.Header.Set("anthropic-version", "2023-06-01")
	case WireGemini:
		// Gemini carries the key in the query string, set in
		// encodeRequest.
	default:
		req.Header.Set("Authorization", "Bearer "+p.creds.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d)", resp.StatusCode)
	}

	return p.decodeResponse(body)
}

func (p *Provider) encodeRequest(prompt string, temperature float64, maxTokens int) ([]byte, string, error) {
	switch p.cfg.Wire {
	case WireAnthropic:
		body, err := json.Marshal(map[string]any{
			"model":      p.cfg.Model,
			"max_tokens": maxTokens,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
			"temperature": temperature,
		})
		return body, p.cfg.Endpoint, err

	case WireGemini:
		body, err := json.Marshal(map[string]any{
			"contents": []map[string]any{
				{"parts": []map[string]string{{"text": prompt}}},
			},
			"generationConfig": map[string]any{
				"temperature":     temperature,
				"maxOutputTokens": maxTokens,
			},
		})
		endpoint := fmt.Sprintf(p.cfg.Endpoint, p.cfg.Model) + "?key=" + p.creds.APIKey
		return body, endpoint, err

	default:
		body, err := json.Marshal(map[string]any{
			"model": p.cfg.Model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
			"temperature": temperature,
			"max_tokens":  maxTokens,
		})
		return body, p.cfg.Endpoint, err
	}
}

func (p *Provider) decodeResponse(body []byte) (string, error) {
	switch p.cfg.Wire {
	case WireAnthropic:
		var resp struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		if len(resp.Content) == 0 {
			return "", errors.New("empty response")
		}
		return resp.Content[0].Text, nil

	case WireGemini:
		var resp struct {
			Candidates []struct {
				Content struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", errors.New("empty response")
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil

	default:
		var resp struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("empty response")
		}
		return resp.Choices[0].Message.Content, nil
	}
}

// StripFences removes a markdown code-fence wrapper from a model
// reply, if present.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

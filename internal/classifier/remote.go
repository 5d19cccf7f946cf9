package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spec-kit/ticket-insights/internal/config"
	"github.com/spec-kit/ticket-insights/internal/domain"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// RemoteClassifier classifies text through an external service.
type RemoteClassifier interface {
	Classify(ctx context.Context, text string, cc domain.ClientContext) (domain.AnalysisResult, error)
}

// Remote calls an OpenAI-compatible chat completions endpoint.
type Remote struct {
	endpoint    string
	model       string
	apiKey      string
	temperature float64
	httpClient  *http.Client
	now         func() time.Time
}

var _ RemoteClassifier = (*Remote)(nil)

// NewRemote builds a client from configuration. A zero timeout leaves the
// call bounded only by the caller's context.
func NewRemote(cfg config.LLMConfig) *Remote {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Remote{
		endpoint:    endpoint,
		model:       cfg.Model,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
		now:         time.Now,
	}
}

// Enabled reports whether a credential is configured.
func (r *Remote) Enabled() bool {
	return r != nil && r.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Classify sends one completion request and parses the reply.
func (r *Remote) Classify(ctx context.Context, text string, cc domain.ClientContext) (domain.AnalysisResult, error) {
	if !r.Enabled() {
		return domain.AnalysisResult{}, fmt.Errorf("%w: no API key configured", ErrServiceUnavailable)
	}

	body, err := json.Marshal(chatRequest{
		Model: r.model,
		Messages: []chatMessage{
			{Role: "system", Content: BuildSystemPrompt()},
			{Role: "user", Content: BuildUserPrompt(text, cc, r.now())},
		},
		Temperature: r.temperature,
	})
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.AnalysisResult{}, fmt.Errorf("%w: %s: %s", ErrServiceUnavailable, resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: decode completion: %v", ErrInvalidResponse, err)
	}
	if len(completion.Choices) == 0 {
		return domain.AnalysisResult{}, fmt.Errorf("%w: empty choices", ErrInvalidResponse)
	}

	return ParseAnalysis(completion.Choices[0].Message.Content)
}

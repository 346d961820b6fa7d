package llm

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"wesum/internal/config"
	"wesum/internal/ports"
)

const defaultEndpoint = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"

// DashScopeClient calls the DashScope text-generation API. No client-side
// timeout: a generation call runs as long as the service lets it, the
// caller's context is the only bound.
type DashScopeClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.Generator = (*DashScopeClient)(nil)

// NewDashScopeClient builds a client from configuration.
func NewDashScopeClient(cfg config.AIConfig) *DashScopeClient {
	return &DashScopeClient{
		endpoint:   cmp.Or(cfg.Endpoint, defaultEndpoint),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{},
	}
}

type generationRequest struct {
	Model string `json:"model"`
	Input struct {
		Prompt string `json:"prompt"`
	} `json:"input"`
	Parameters struct {
		MaxTokens int `json:"max_tokens"`
	} `json:"parameters"`
}

type generationResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// Generate posts the prompt and returns the generated text. A non-success
// HTTP status or an API error code comes back as an error carrying the
// service's code and message.
func (c *DashScopeClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" || c.model == "" {
		return "", fmt.Errorf("dashscope client misconfigured")
	}

	var payload generationRequest
	payload.Model = c.model
	payload.Input.Prompt = prompt
	payload.Parameters.MaxTokens = maxTokens

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call dashscope: %w", err)
	}
	defer resp.Body.Close()

	var decoded generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || decoded.Code != "" {
		return "", fmt.Errorf("API 错误: %s - %s", cmp.Or(decoded.Code, resp.Status), decoded.Message)
	}

	return decoded.Output.Text, nil
}

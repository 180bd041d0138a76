package recommend

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

	"github.com/estatepilot/estatepilot/internal/pkg/env"
)

const defaultLLMAPIBaseURL = "https://api.openai.com/v1"

var (
	// ErrUpstreamRateLimited is returned when the provider answers 429.
	ErrUpstreamRateLimited = errors.New("recommend: provider rate limited")
	// ErrUpstreamQuotaExhausted is returned when the provider rejects the
	// call for billing reasons (402 or an insufficient_quota error code).
	ErrUpstreamQuotaExhausted = errors.New("recommend: provider quota exhausted")
	// ErrUpstreamFailure covers every other provider failure. Callers map
	// it to a generic 500 without leaking detail.
	ErrUpstreamFailure = errors.New("recommend: provider request failed")
)

// Client calls an OpenAI-compatible chat-completions endpoint with a forced
// function call. One attempt per request, no retry.
type Client struct {
	APIBaseURL string
	APIKey     string
	Model      string

	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from LLM_* environment variables.
func NewClientFromEnv() *Client {
	return &Client{
		APIBaseURL: strings.TrimRight(env.GetEnv("LLM_API_BASE_URL", defaultLLMAPIBaseURL), "/"),
		APIKey:     strings.TrimSpace(env.GetEnv("LLM_API_KEY", "")),
		Model:      env.GetEnv("LLM_MODEL", "gpt-4o-mini"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

type chatToolChoice struct {
	Type     string `json:"type"`
	Function struct {
		Name string `json:"name"`
	} `json:"function"`
}

type chatRequest struct {
	Model       string         `json:"model"`
	Temperature float32        `json:"temperature"`
	Messages    []chatMessage  `json:"messages"`
	Tools       []chatTool     `json:"tools"`
	ToolChoice  chatToolChoice `json:"tool_choice"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Recommend validates the request, makes a single provider call and returns
// the schema-checked function arguments verbatim.
func (c *Client) Recommend(ctx context.Context, req *CampaignRequest) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if c.APIKey == "" {
		return nil, fmt.Errorf("%w: LLM_API_KEY is not configured", ErrUpstreamFailure)
	}

	toolChoice := chatToolChoice{Type: "function"}
	toolChoice.Function.Name = recommendationFunctionName

	body, err := json.Marshal(chatRequest{
		Model:       c.Model,
		Temperature: 0.2,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(req)},
		},
		Tools: []chatTool{{
			Type: "function",
			Function: chatFunction{
				Name:        recommendationFunctionName,
				Description: "Return a structured ad campaign recommendation",
				Parameters:  json.RawMessage(recommendationSchema),
			},
		}},
		ToolChoice: toolChoice,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapProviderStatus(resp.StatusCode, data)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: unreadable response", ErrUpstreamFailure)
	}
	if len(parsed.Choices) == 0 || len(parsed.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w: response contains no function call", ErrUpstreamFailure)
	}

	call := parsed.Choices[0].Message.ToolCalls[0].Function
	if call.Name != recommendationFunctionName {
		return nil, fmt.Errorf("%w: unexpected function %q", ErrUpstreamFailure, call.Name)
	}
	arguments := json.RawMessage(call.Arguments)
	if err := ValidateRecommendation(arguments); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	return arguments, nil
}

func mapProviderStatus(status int, body []byte) error {
	var perr providerError
	_ = json.Unmarshal(body, &perr)

	if perr.Error.Code == "insufficient_quota" || perr.Error.Type == "insufficient_quota" {
		return ErrUpstreamQuotaExhausted
	}
	switch status {
	case http.StatusTooManyRequests:
		return ErrUpstreamRateLimited
	case http.StatusPaymentRequired:
		return ErrUpstreamQuotaExhausted
	}
	return fmt.Errorf("%w: status=%d", ErrUpstreamFailure, status)
}

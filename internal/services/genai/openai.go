package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"
)

// Client handles communication with an OpenAI-compatible completion API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	userAgent  string
}

// Config holds configuration for the generation client
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a new generation API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "LecternAPI/1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		userAgent:  cfg.UserAgent,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete submits a prompt and returns the raw completion text
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", NewServiceError(KindMalformedRequest, "encoding request", err)
	}

	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", NewServiceError(KindMalformedRequest, "creating request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	var decoded chatResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&decoded); decodeErr != nil && resp.StatusCode == http.StatusOK {
		return "", NewServiceError(KindTransient, "decoding response", decodeErr)
	}

	if resp.StatusCode != http.StatusOK {
		kind := classifyStatus(resp.StatusCode)
		message := fmt.Sprintf("API returned status %d", resp.StatusCode)
		if decoded.Error != nil {
			if decoded.Error.Code == "content_policy_violation" || decoded.Error.Type == "content_policy" {
				kind = KindContentPolicy
			}
			message = decoded.Error.Message
		}
		log.Printf("[ERROR] Generation API failure (status %d, kind %s): %s", resp.StatusCode, kind, message)
		return "", NewServiceError(kind, message, nil)
	}

	if len(decoded.Choices) == 0 {
		return "", NewServiceError(KindTransient, "response contained no choices", nil)
	}

	return decoded.Choices[0].Message.Content, nil
}

// classifyStatus maps an HTTP status to the enumerated error contract
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusServiceUnavailable:
		return KindOverloaded
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= 500:
		return KindTransient
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindBadCredentials
	default:
		return KindMalformedRequest
	}
}

func classifyTransportError(err error) *ServiceError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewServiceError(KindTimeout, "request timed out", err)
	}
	return NewServiceError(KindTransient, "transport failure", err)
}

package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lectern-app/lectern-api/internal/models"
)

const (
	DefaultMaxRetries = 5
	DefaultBaseDelay  = 5 * time.Second
)

// ResilientClient wraps a Completer with retry/backoff and the
// extract-validate-repair pipeline for structured output.
type ResilientClient struct {
	completer  Completer
	maxRetries int
	baseDelay  time.Duration
	sleep      func(time.Duration)
}

// Option is a functional option for configuring the resilient client
type Option func(*ResilientClient)

// WithMaxRetries sets the retry budget (total attempts)
func WithMaxRetries(n int) Option {
	return func(c *ResilientClient) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithBaseDelay sets the backoff base delay
func WithBaseDelay(d time.Duration) Option {
	return func(c *ResilientClient) {
		if d > 0 {
			c.baseDelay = d
		}
	}
}

// WithSleep overrides the sleep function (used in tests)
func WithSleep(fn func(time.Duration)) Option {
	return func(c *ResilientClient) {
		c.sleep = fn
	}
}

// NewResilientClient creates a retrying wrapper around a Completer
func NewResilientClient(completer Completer, opts ...Option) *ResilientClient {
	client := &ResilientClient{
		completer:  completer,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Generate submits the prompt, retrying retryable failures with exponential
// backoff (baseDelay * 2^(attempt-1), no jitter). Terminal failures return
// immediately without consuming the retry budget.
func (c *ResilientClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		raw, err := c.completer.Complete(ctx, prompt)
		if err == nil {
			return raw, nil
		}

		if IsTerminal(err) {
			log.Printf("[ERROR] Generation failed terminally (kind %s, attempt %d): %v", KindOf(err), attempt, err)
			return "", err
		}

		lastErr = err
		if attempt == c.maxRetries {
			break
		}

		delay := c.baseDelay * (1 << uint(attempt-1))
		log.Printf("[WARN] Generation attempt %d/%d failed (kind %s), retrying in %s: %v",
			attempt, c.maxRetries, KindOf(err), delay, err)
		c.sleep(delay)

		if ctx.Err() != nil {
			return "", NewServiceError(KindTimeout, "context cancelled during backoff", ctx.Err())
		}
	}

	return "", &ExhaustedRetriesError{Attempts: c.maxRetries, Last: lastErr}
}

// GenerateJSON generates a completion and decodes its payload into out.
// The raw response is parsed permissively: code fences are unwrapped and
// surrounding prose is discarded before decoding. A payload that still does
// not decode is a terminal invalid-shape failure.
func (c *ResilientClient) GenerateJSON(ctx context.Context, prompt string, out interface{}) error {
	raw, err := c.Generate(ctx, prompt)
	if err != nil {
		return err
	}

	payload := ExtractPayload(raw)
	if payload == "" {
		return NewServiceError(KindInvalidShape, "response contained no JSON payload", nil)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return NewServiceError(KindInvalidShape, "decoding payload", err)
	}

	return nil
}

// GenerateQuestions generates, repairs, and validates a set of multiple
// choice questions. A payload that is still structurally invalid after
// repair fails terminally: the model answered in the wrong shape, and
// repeating the same prompt is unlikely to fix that.
func (c *ResilientClient) GenerateQuestions(ctx context.Context, prompt string, expectedCount int) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	if err := c.GenerateJSON(ctx, prompt, &questions); err != nil {
		return nil, err
	}

	questions = RepairQuestions(questions)

	if err := ValidateQuestions(questions, expectedCount); err != nil {
		return nil, NewServiceError(KindInvalidShape, fmt.Sprintf("post-repair validation failed: %v", err), err)
	}

	return questions, nil
}

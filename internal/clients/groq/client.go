package groq

import (
	"context"
	"errors"
	"fmt"
	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.groq.com/openai/v1"

const (
	ModelLlama31Instant = "llama-3.1-8b-instant"
	ModelLlama33        = "llama-3.3-70b-versatile"
)

// Client talks to Groq through its OpenAI-compatible chat completion API.
type Client struct {
	client            *openai.Client
	model             string
	minuteRateLimiter *rate.Limiter
}

func NewClient(apiKey string, model string, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = lo.Ternary(baseURL == "", DefaultBaseURL, baseURL)
	cfg.HTTPClient = &http.Client{}

	return &Client{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	if maxRequestsPerMinute <= 0 {
		return
	}
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

func (c *Client) GenerateResponse(ctx context.Context, text string) (string, error) {

	var resp string
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("groq api returned server error, retrying...")
		}
		resp, err = c.waitAndGenerateResponse(ctx, text)
		return err, isServerError(err)
	})

	return resp, err
}

func (c *Client) waitAndGenerateResponse(ctx context.Context, text string) (string, error) {

	if c.minuteRateLimiter != nil {
		if err := c.minuteRateLimiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	response, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return response.Choices[0].Message.Content, nil
}

func isServerError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	var requestErr *openai.RequestError
	if errors.As(err, &requestErr) {
		return requestErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	return false
}

// Package llm wraps an OpenAI-compatible chat completion API.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultModel           = "gpt-3.5-turbo"
	defaultVisionModel     = "gpt-4o-mini"
	defaultClassifierModel = "gpt-4o-mini"
	defaultMaxTokens       = 512
)

var (
	ErrEmptyResponse = errors.New("llm: no response choices")
	ErrNotConfigured = errors.New("llm: OPENAI_API_KEY is not set")
)

// Unconfigured stands in for the client when no API key is set: every call
// fails with ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Complete(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}

type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	VisionModel     string
	ClassifierModel string
	MaxTokens       int
	HTTPClient      *http.Client
}

// Request is one completion call. Images are raw encoded bytes (jpeg/png)
// and switch the call to the vision model.
type Request struct {
	System      string
	Text        string
	Images      [][]byte
	Temperature float64
}

type Client struct {
	client          *openai.Client
	model           string
	visionModel     string
	classifierModel string
	maxTokens       int
}

func NewClient(cfg Config) *Client {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}
	c := &Client{
		client:          openai.NewClientWithConfig(config),
		model:           cfg.Model,
		visionModel:     cfg.VisionModel,
		classifierModel: cfg.ClassifierModel,
		maxTokens:       cfg.MaxTokens,
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.visionModel == "" {
		c.visionModel = defaultVisionModel
	}
	if c.classifierModel == "" {
		c.classifierModel = defaultClassifierModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = defaultMaxTokens
	}
	return c
}

// Complete sends the request and returns the trimmed text of the first choice.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	model := c.model
	if len(req.Images) == 0 {
		user.Content = req.Text
	} else {
		model = c.visionModel
		parts := []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: req.Text}}
		for _, img := range req.Images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    DataURL(img),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
		user.MultiContent = parts
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, user)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Classify is a short, low temperature call expected to return one label.
func (c *Client) Classify(ctx context.Context, system, text string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.classifierModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.1,
		MaxTokens:   10,
	})
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// DataURL inlines an image as a base64 data URL.
func DataURL(img []byte) string {
	mime := http.DetectContentType(img)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img)
}

// Package llm hosts the LLM-backed stages: query planning, entity
// extraction, cited summarization and fact-checking. Every stage is
// fail-open: a parse failure or transport error degrades to a stated
// fallback instead of aborting the run.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/vbascerano/dossier/internal/model"
)

// Chatter is one chat-completion round trip. Stages depend on this
// interface so tests can inject canned responses.
type Chatter interface {
	Chat(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Client talks to any OpenAI-compatible endpoint (OpenAI, vLLM, Ollama).
type Client struct {
	api *openai.Client
	cfg model.LLMConfig
}

// NewClient creates a client from the LLM config. The base URL override
// is what makes local vLLM/Ollama deployments work.
func NewClient(cfg model.LLMConfig) *Client {
	apiKey := cfg.APIKey
	if apiKey == "" {
		// Local servers ignore the key but the SDK requires one.
		apiKey = "sk-local"
	}
	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(clientConfig), cfg: cfg}
}

// Chat sends one system+user exchange and returns the assistant text.
func (c *Client) Chat(ctx context.Context, system, user string, maxTokens int) (string, error) {
	timeout := time.Duration(c.cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Model reports the configured model name for report metadata.
func (c *Client) Model() string {
	return c.cfg.Model
}

// stripFences removes a ```json ... ``` wrapper that chat models often
// add around JSON they were told to emit bare.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

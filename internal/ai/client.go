// Package ai generates story drafts and developer prompts through the
// OpenAI chat completions API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	chatCompletionsURL = "https://api.openai.com/v1/chat/completions"
	defaultModel       = "gpt-4o-mini"
	maxRetries         = 3
	initialDelay       = 1 * time.Second
)

// Client is a chat completions client. The API key comes from settings or
// the OS keyring, never from the exported board.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// StoryDraft is the structured output of story generation. Fields the model
// omits stay zero and the caller applies defaults.
type StoryDraft struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	Priority       string   `json:"priority"`
	EstimatedHours float64  `json:"estimatedHours"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: chatCompletionsURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// WithModel overrides the default model.
func (c *Client) WithModel(model string) *Client {
	if model != "" {
		c.model = model
	}
	return c
}

const storySystemPrompt = `You are an agile coach helping write user stories for a kanban board.
Given a rough idea, respond with a JSON object containing:
  "title": a concise story title (under 80 characters),
  "description": an expanded description with acceptance criteria,
  "tags": up to 4 short lowercase tags,
  "priority": one of "low", "medium", "high",
  "estimatedHours": a rough numeric estimate.
Respond with the JSON object only, no markdown fences.`

// GenerateStory expands a rough idea into a structured draft. When the model
// answers with prose instead of JSON, the text becomes the description and
// the idea itself becomes the title rather than failing the call.
func (c *Client) GenerateStory(ctx context.Context, idea string) (*StoryDraft, error) {
	if strings.TrimSpace(idea) == "" {
		return nil, fmt.Errorf("story idea cannot be empty")
	}
	content, err := c.complete(ctx, storySystemPrompt, idea, 0.7)
	if err != nil {
		return nil, err
	}

	draft := &StoryDraft{}
	if err := json.Unmarshal([]byte(stripFences(content)), draft); err != nil || draft.Title == "" {
		draft = &StoryDraft{
			Title:       truncate(idea, 80),
			Description: strings.TrimSpace(content),
		}
	}
	if draft.Tags == nil {
		draft.Tags = []string{}
	}
	return draft, nil
}

const promptSystemPrompt = `You are a senior engineer writing implementation prompts for a coding assistant.
Given a user story, write a clear, self-contained prompt a developer could paste
into an AI coding tool to implement it. Include context, constraints and a
definition of done. Respond with the prompt text only.`

// GenerateDevPrompt writes an implementation prompt for a story.
func (c *Client) GenerateDevPrompt(ctx context.Context, title, description string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("story title cannot be empty")
	}
	input := "Story: " + title
	if description != "" {
		input += "\n\n" + description
	}
	content, err := c.complete(ctx, promptSystemPrompt, input, 0.5)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// TestConnection performs a minimal completion to verify the key and model.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.complete(ctx, "Reply with the single word: ok", "ping", 0)
	return err
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("no API key configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr apiError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, string(respBody))
			}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var chatResp chatResponse
		if err := json.Unmarshal(respBody, &chatResp); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		if len(chatResp.Choices) == 0 {
			return "", fmt.Errorf("no completion returned")
		}
		return chatResp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, lastErr)
}

// stripFences removes a markdown code fence the model sometimes wraps JSON
// in despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

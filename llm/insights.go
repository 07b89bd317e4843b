package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	groqURL   = "https://api.groq.com/openai/v1/chat/completions"
	groqModel = "llama-3.3-70b-versatile"
)

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Choice struct {
	Message Message `json:"message"`
}

type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

// Client generates insight narratives through an OpenAI-compatible
// chat-completions endpoint (Groq). A nil *Client means AI is not
// configured; callers fall back to numbers-only insights.
type Client struct {
	URL        string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		URL:        groqURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

const insightSystemPrompt = "You are a personal finance advisor. Analyze the user's data and give " +
	"practical, encouraging insights in plain language. Keep it to 3-4 short paragraphs. " +
	"Do not use markdown formatting."

// GenerateInsight turns the prepared financial summary into a short
// narrative. Errors are surfaced so the caller can degrade gracefully.
func (c *Client) GenerateInsight(ctx context.Context, summary string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("AI client not configured")
	}

	reqBody := ChatRequest{
		Model:       groqModel,
		MaxTokens:   1000,
		Temperature: 0.7,
		Messages: []Message{
			{Role: "system", Content: insightSystemPrompt},
			{Role: "user", Content: summary},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI provider returned status %d", resp.StatusCode)
	}

	var parsed ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("AI provider returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

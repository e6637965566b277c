package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"email-triage-go/internal/config"
)

const classifySystemPrompt = "You are an assistant that extracts sentiment, short summary (1-2 sentences)," +
	" essential contact/account info, and drafts a professional, empathetic reply when needed."

const classifyUserPromptFormat = `Email body:
%s

Return a JSON object with keys: sentiment (Positive/Negative/Neutral),
summary (1-2 sentences), extracted (bullet points or JSON string of contact info / requirements),
reply (a draft professional response). Keep reply <= 200 words.
`

const replySystemPrompt = "You are a professional customer support agent. Use the KB context when relevant."

const replyUserPromptFormat = `KB Context:
%s

Customer email:
%s

Draft a concise, empathetic reply (<=200 words).`

// OpenAIClassifier implements Classifier using the OpenAI chat completions API
type OpenAIClassifier struct {
	cfg        config.OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIClassifier creates a classifier backed by the OpenAI API
func NewOpenAIClassifier(cfg config.OpenAIConfig) *OpenAIClassifier {
	return &OpenAIClassifier{
		cfg: cfg,
		httpClient: &http.Client{
			// Bounded timeout so a stalled API call cannot wedge the single worker
			Timeout: cfg.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify asks the model for sentiment, summary, extracted info, and a draft reply
func (c *OpenAIClassifier) Classify(ctx context.Context, body string) (*Result, error) {
	// Without an API key the service degrades to an empty result; the worker
	// fills in defaults
	if c.cfg.APIKey == "" {
		return &Result{}, nil
	}

	content, err := c.chatCompletion(ctx, []chatMessage{
		{Role: "system", Content: classifySystemPrompt},
		{Role: "user", Content: fmt.Sprintf(classifyUserPromptFormat, body)},
	}, 0.0)
	if err != nil {
		return nil, err
	}

	result, err := parseResult(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}
	return result, nil
}

// GenerateReply drafts a reply using optional knowledge-base context
func (c *OpenAIClassifier) GenerateReply(ctx context.Context, body, kbContext string) (string, error) {
	if kbContext == "" {
		kbContext = "N/A"
	}

	content, err := c.chatCompletion(ctx, []chatMessage{
		{Role: "system", Content: replySystemPrompt},
		{Role: "user", Content: fmt.Sprintf(replyUserPromptFormat, kbContext, body)},
	}, 0.2)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// chatCompletion performs a single chat completions call and returns the
// message content
func (c *OpenAIClassifier) chatCompletion(ctx context.Context, messages []chatMessage, temperature float64) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// parseResult parses the model's JSON output, tolerating fenced code blocks
func parseResult(content string) (*Result, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var result Result
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return nil, err
	}
	if result.Sentiment != "" {
		result.Sentiment = NormalizeSentiment(result.Sentiment)
	}
	return &result, nil
}

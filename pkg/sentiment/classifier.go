// Package sentiment tags alerts with the tone they carry toward the tracked keyword
// using an OpenAI-compatible chat completion API.
package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/alertscope/pkg/config"
	"github.com/umputun/alertscope/pkg/domain"
)

// Classifier uses LLM to judge alert sentiment
type Classifier struct {
	client    *openai.Client
	config    config.SentimentConfig
	systemMsg string
}

// errBadResponse marks llm responses worth another attempt
var errBadResponse = errors.New("bad llm response")

const maxContentLen = 500

// default system prompt for sentiment tagging
const defaultSystemPrompt = `You are an AI assistant that evaluates the sentiment of news mentions toward a tracked keyword.
For each mention decide whether it speaks about the keyword in a positive, neutral or negative way.

Each result should contain:
- id: the mention id as given
- sentiment: one of "positive", "neutral", "negative"

Judge the sentiment toward the keyword itself, not the general mood of the text.
When in doubt, answer "neutral".`

// NewClassifier creates a new sentiment classifier
func NewClassifier(cfg config.SentimentConfig) *Classifier {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &Classifier{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
	}
}

type result struct {
	ID        json.Number `json:"id"`
	Sentiment string      `json:"sentiment"`
}

// Classify returns sentiment for each alert keyed by alert RowID.
// Alerts the model skipped or labeled with an unknown value are not in the result.
func (c *Classifier) Classify(ctx context.Context, keyword string, alerts []domain.Alert) (map[int64]domain.Sentiment, error) {
	if len(alerts) == 0 {
		return map[int64]domain.Sentiment{}, nil
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	prompt := c.buildPrompt(keyword, alerts)

	// retry up to 3 times if we get invalid JSON
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		chatReq := openai.ChatCompletionRequest{
			Model:       c.config.Model,
			Temperature: float32(c.config.Temperature),
			MaxTokens:   c.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: c.systemMsg},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		}
		if c.config.UseJSONMode {
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no response from llm")
		}

		res, err := c.parseResponse(resp.Choices[0].Message.Content, alerts)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !errors.Is(err, errBadResponse) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed after 3 attempts: %w", lastErr)
}

// buildPrompt creates the prompt for the LLM
func (c *Classifier) buildPrompt(keyword string, alerts []domain.Alert) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tracked keyword: %s\n\n", keyword))
	sb.WriteString("Classify these mentions:\n\n")
	for _, a := range alerts {
		sb.WriteString(fmt.Sprintf("ID: %d\n", a.RowID))
		sb.WriteString(fmt.Sprintf("   Title: %s\n", a.Title))
		if a.Content != "" {
			content := a.Content
			if len([]rune(content)) > maxContentLen {
				content = string([]rune(content)[:maxContentLen]) + "..."
			}
			sb.WriteString(fmt.Sprintf("   Content: %s\n", content))
		}
		sb.WriteString("\n")
	}

	if c.config.UseJSONMode {
		sb.WriteString("Respond with a JSON object containing a 'results' array of result objects.")
	} else {
		sb.WriteString("Respond with a JSON array of result objects.")
	}
	return sb.String()
}

// parseResponse extracts sentiments for known alerts from the LLM response
func (c *Classifier) parseResponse(content string, alerts []domain.Alert) (map[int64]domain.Sentiment, error) {
	var results []result

	if c.config.UseJSONMode {
		var resp struct {
			Results []result `json:"results"`
		}
		if err := json.Unmarshal([]byte(content), &resp); err != nil {
			return nil, fmt.Errorf("%w: failed to parse json object: %v", errBadResponse, err)
		}
		results = resp.Results
	} else {
		start := strings.Index(content, "[")
		end := strings.LastIndex(content, "]")
		if start == -1 || end == -1 || start >= end {
			return nil, fmt.Errorf("%w: no json array found", errBadResponse)
		}
		if err := json.Unmarshal([]byte(content[start:end+1]), &results); err != nil {
			return nil, fmt.Errorf("%w: failed to parse json array: %v", errBadResponse, err)
		}
	}

	known := make(map[int64]bool, len(alerts))
	for _, a := range alerts {
		known[a.RowID] = true
	}

	res := make(map[int64]domain.Sentiment, len(results))
	for _, r := range results {
		id, err := strconv.ParseInt(r.ID.String(), 10, 64)
		if err != nil || !known[id] {
			continue
		}
		s := domain.ParseSentiment(strings.ToLower(strings.TrimSpace(r.Sentiment)))
		if s == domain.SentimentUnknown {
			continue
		}
		res[id] = s
	}
	return res, nil
}

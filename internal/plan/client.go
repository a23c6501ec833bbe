// Package plan asks a language model to turn a free-text description of a
// day into candidate tasks. The model's reply is treated as an untrusted
// batch: transport or decode failures reject the whole batch, field
// problems reject single candidates.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"

	"github.com/sadopc/dayplan/internal/store"
)

const (
	defaultModel = "claude-3-5-haiku-latest"
	maxRetries   = 3
	// historyLimit caps how many past tasks feed the prompt as context.
	historyLimit = 15
)

// ErrAPIKeyRequired is returned when no API key is configured.
var ErrAPIKeyRequired = errors.New("plan: API key required")

// Candidate is one task field-set proposed by the model, before validation.
type Candidate struct {
	Time            string `json:"time"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ReminderMinutes *int   `json:"reminderMinutes,omitempty"`
	IsUrgent        bool   `json:"isUrgent,omitempty"`
}

type response struct {
	Tasks []Candidate `json:"tasks"`
}

// Client talks to the Anthropic Messages API.
type Client struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClient builds a planning client. ANTHROPIC_API_KEY takes precedence
// over the explicit key; model may be empty for the default.
func NewClient(apiKey, model string) (*Client, error) {
	if envKey := os.Getenv("ANTHROPIC_API_KEY"); envKey != "" {
		apiKey = envKey
	}
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
	}, nil
}

const systemPrompt = `You are a scheduling assistant. The user describes their day in free
text; you convert it into a structured task list.

Recent schedule history (use it to match the user's habits, e.g. their
usual workout or work hours):
%s

Rules:
1. Reply with JSON only: an object with a "tasks" array.
2. Each task has "time" ("HH:MM - HH:MM"), "title", "description",
   optionally "reminderMinutes" (integer minutes before the start, e.g.
   0, 15 or 30) and "isUrgent" (boolean, judged from the description).
3. Keep titles short and descriptions friendly.

Example:
{"tasks":[{"time":"09:00 - 10:00","title":"Morning workout","description":"Start the day with energy","isUrgent":false}]}`

// Generate asks the model for candidate tasks for the given date. The
// returned candidates are unvalidated; run them through Validate before
// inserting.
func (c *Client) Generate(ctx context.Context, prompt, date string, history []store.Task) ([]Candidate, error) {
	system := fmt.Sprintf(systemPrompt, historyContext(history))
	user := fmt.Sprintf("Target date: %s. User input: %q", date, prompt)

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}

	var text string
	op := func() error {
		message, err := c.client.Messages.New(ctx, params)
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(message.Content) == 0 || message.Content[0].Type != "text" {
			return backoff.Permanent(fmt.Errorf("unexpected response format"))
		}
		text = message.Content[0].Text
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("generate schedule: %w", err)
	}

	return decodeCandidates(text)
}

// decodeCandidates parses the model's JSON reply, tolerating a markdown
// code fence around it.
func decodeCandidates(text string) ([]Candidate, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}

	var resp response
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return resp.Tasks, nil
}

func historyContext(history []store.Task) string {
	if len(history) == 0 {
		return "(no history yet)"
	}
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	var b strings.Builder
	for _, t := range history {
		fmt.Fprintf(&b, "- %s %s: %s\n", t.Date, t.Time, t.Title)
	}
	return b.String()
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	return false
}

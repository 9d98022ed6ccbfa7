package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sethvargo/go-retry"

	"github.com/officialapps/govcon/config"
)

// maxRFPTextChars bounds how much extracted text goes into the prompt,
// capping token usage per generation.
const maxRFPTextChars = 4000

const systemPrompt = "You are a proposal writer."

const userPromptTemplate = `You are a government proposal writer. Based on the RFP text below, generate a high-level executive summary or introduction for a proposal.

RFP TEXT:
%s`

// Drafter generates executive-summary drafts from extracted RFP text via
// the OpenAI chat completion API.
type Drafter struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	retries uint64
}

func NewDrafter(cfg *config.OpenAIConfig) *Drafter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	return &Drafter{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		retries: uint64(cfg.MaxRetries),
	}
}

// GenerateDraft truncates rfpText to the first 4000 characters, builds the
// fixed two-message prompt and calls the completion API. Transient
// failures are retried a bounded number of times; a 4xx rejection is
// never retried.
func (d *Drafter) GenerateDraft(ctx context.Context, rfpText string) (string, error) {
	prompt := fmt.Sprintf(userPromptTemplate, truncateChars(rfpText, maxRFPTextChars))

	req := openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var draft string
	backoff := retry.WithMaxRetries(d.retries, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := d.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("completion returned no choices")
		}
		draft = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate draft: %w", err)
	}

	return draft, nil
}

// isTransient reports whether an API failure is worth retrying. Server
// errors and network faults are; any 4xx rejection is not.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500
	}
	return true
}

// truncateChars cuts s to at most n characters (code points), so the cap
// is deterministic regardless of encoding.
func truncateChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

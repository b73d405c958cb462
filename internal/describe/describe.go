package describe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/dataprep/internal/dataset"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Config holds the language-model client settings.
type Config struct {
	// APIKey authorizes the OpenAI API. Empty disables descriptions;
	// Describe then returns statistics only.
	APIKey string
	// Model is the chat model to use (default gpt-4o-mini).
	Model string
	// MaxTokens is the per-column completion budget (default 50).
	MaxTokens int64
	// Timeout bounds each remote call (default 30s). Calls are one-shot:
	// there is no retry.
	Timeout time.Duration
	// SampleSize caps the rows sampled for statistics (default 1000).
	SampleSize int
}

// Describer analyzes datasets, calling the OpenAI API for one short
// description per column.
type Describer struct {
	client openai.Client
	cfg    Config
}

// New returns a describer with defaults filled in.
func New(cfg Config) *Describer {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = 1000
	}
	return &Describer{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		),
		cfg: cfg,
	}
}

// Describe profiles the dataset and asks the model for a description of
// each column. Without an API key the statistics are returned with a note
// and no remote calls are made. A failed call aborts the remaining
// columns; the report built so far is returned alongside the error.
func (d *Describer) Describe(ctx context.Context, ds *dataset.Dataset) (*Report, error) {
	report := Profile(ds, d.cfg.SampleSize)

	if d.cfg.APIKey == "" {
		report.Note = "no API key configured; column descriptions skipped"
		return report, nil
	}

	for i := range report.Columns {
		description, err := d.describeColumn(ctx, report.Columns[i].Column)
		if err != nil {
			return report, fmt.Errorf("describing column %q: %w", report.Columns[i].Column, err)
		}
		report.Columns[i].Description = description
	}
	return report, nil
}

func (d *Describer) describeColumn(ctx context.Context, column string) (string, error) {
	prompt := fmt.Sprintf("Provide a short and simple description for the column '%s'.", column)

	resp, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(d.cfg.Model),
		MaxTokens: openai.Int(d.cfg.MaxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	return TrimIncompleteSentence(text), nil
}

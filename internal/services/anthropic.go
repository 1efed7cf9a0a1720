package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"alfredoptarigan/cv-screener/internal/logger"
)

type AnthropicOptions struct {
	APIKey  string
	Model   string
	Retry   RetryPolicy
	Limiter *rate.Limiter
}

type anthropicService struct {
	client  anthropic.Client
	model   string
	retry   RetryPolicy
	limiter *rate.Limiter
	log     *zap.Logger
}

// NewAnthropicService returns a Completer backed by the Anthropic Messages API.
func NewAnthropicService(opts AnthropicOptions, log *zap.Logger) (Completer, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is empty")
	}
	if opts.Model == "" {
		opts.Model = "claude-sonnet-4-5"
	}

	return &anthropicService{
		client:  anthropic.NewClient(option.WithAPIKey(opts.APIKey)),
		model:   opts.Model,
		retry:   opts.Retry,
		limiter: opts.Limiter,
		log:     logger.WithFields(log, logger.ProviderFields("anthropic", opts.Model)...),
	}, nil
}

// Model implements Completer.
func (a *anthropicService) Model() string {
	return a.model
}

// Complete implements Completer.
func (a *anthropicService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if strings.TrimSpace(req.System) != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	return withRetry(ctx, a.log, a.limiter, a.retry, func(ctx context.Context) (string, error) {
		msg, err := a.client.Messages.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("failed to create message: %w", err)
		}

		var b strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		text := b.String()
		a.log.Debug("anthropic response received",
			zap.String("stop_reason", string(msg.StopReason)),
			zap.String("response", logger.TruncateForLog(text, 300)),
		)
		return text, nil
	})
}

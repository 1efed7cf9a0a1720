package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/logger"
)

// NewProviders returns the Gemini service (nil without an API key) and the
// completer selected by the scoring provider setting.
func NewProviders(ctx context.Context, cfg *config.Config, log *zap.Logger) (GeminiService, Completer, error) {
	retry := RetryPolicy{
		MaxAttempts:  cfg.Scoring.RetryMaxAttempts,
		InitialDelay: cfg.Scoring.RetryInitialDelay,
	}

	var gemini GeminiService
	if cfg.Gemini.APIKey != "" {
		g, err := NewGeminiService(ctx, GeminiOptions{
			APIKey:     cfg.Gemini.APIKey,
			Model:      cfg.Gemini.Model,
			EmbedModel: cfg.Gemini.EmbedModel,
			Retry:      retry,
			Limiter:    NewLimiter(cfg.Scoring.RequestsPerSecond, cfg.Scoring.Burst),
		}, log)
		if err != nil {
			return nil, nil, err
		}
		gemini = g
	}

	switch cfg.Scoring.Provider {
	case "anthropic":
		completer, err := NewAnthropicService(AnthropicOptions{
			APIKey:  cfg.Anthropic.APIKey,
			Model:   cfg.Anthropic.Model,
			Retry:   retry,
			Limiter: NewLimiter(cfg.Scoring.RequestsPerSecond, cfg.Scoring.Burst),
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return gemini, completer, nil
	default:
		if gemini == nil {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		return gemini, gemini, nil
	}
}

// ScoringOptionsFrom maps the scoring settings onto engine options.
func ScoringOptionsFrom(cfg *config.Config) ScoringOptions {
	return ScoringOptions{
		Temperature: cfg.Scoring.Temperature,
		MaxTokens:   cfg.Scoring.MaxTokens,
		Timeout:     cfg.Scoring.Timeout,
	}
}

// NewCandidateIndexFromConfig returns nil when Qdrant is not configured or
// unreachable. Search is then disabled and evaluations are not indexed.
func NewCandidateIndexFromConfig(ctx context.Context, cfg *config.Config, embedder Embedder, log *zap.Logger) CandidateIndex {
	log = logger.OrNop(log)
	if cfg.Qdrant.URL == "" || embedder == nil {
		log.Info("candidate index disabled")
		return nil
	}

	index, err := NewCandidateIndex(IndexOptions{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
		VectorSize: cfg.Qdrant.VectorSize,
	}, embedder, log)
	if err != nil {
		log.Warn("candidate index unavailable", zap.Error(err))
		return nil
	}

	if err := index.EnsureCollection(ctx); err != nil {
		log.Warn("candidate index unavailable", zap.Error(err))
		return nil
	}
	return index
}

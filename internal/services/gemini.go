package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"alfredoptarigan/cv-screener/internal/logger"
)

// GeminiService is the Gemini backend: completions, embeddings and remote document parsing.
type GeminiService interface {
	Completer
	Embedder
	DocumentParser
}

type GeminiOptions struct {
	APIKey     string
	Model      string
	EmbedModel string
	Retry      RetryPolicy
	Limiter    *rate.Limiter
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	retry      RetryPolicy
	limiter    *rate.Limiter
	log        *zap.Logger
}

const (
	maxEmbedRunes = 10000
	parsePrompt   = "Extract the complete plain text of this resume. Keep the original line order and section headings. Return only the text, no commentary and no markdown."
)

func NewGeminiService(ctx context.Context, opts GeminiOptions, log *zap.Logger) (GeminiService, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	if opts.EmbedModel == "" {
		opts.EmbedModel = "text-embedding-004"
	}

	return &geminiService{
		client:     client,
		modelName:  opts.Model,
		embedModel: opts.EmbedModel,
		retry:      opts.Retry,
		limiter:    opts.Limiter,
		log:        logger.WithFields(log, logger.ProviderFields("gemini", opts.Model)...),
	}, nil
}

// Model implements Completer.
func (g *geminiService) Model() string {
	return g.modelName
}

// Complete implements Completer.
func (g *geminiService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if strings.TrimSpace(req.System) != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	return withRetry(ctx, g.log, g.limiter, g.retry, func(ctx context.Context) (string, error) {
		return g.generate(ctx, genai.Text(req.Prompt), config)
	})
}

func (g *geminiService) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		g.log.Warn("gemini returned no text content", zap.Int("candidates", len(resp.Candidates)))
	}
	g.log.Debug("gemini response received", zap.String("response", logger.TruncateForLog(text, 300)))

	return text, nil
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if runes := []rune(text); len(runes) > maxEmbedRunes {
		text = string(runes[:maxEmbedRunes])
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// ParseDocument implements DocumentParser by sending the file to Gemini's
// document understanding and asking for its plain text.
func (g *geminiService) ParseDocument(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("document is empty")
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeTypeFor(path)),
		genai.NewPartFromText(parsePrompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temperature := float32(0)
	config := &genai.GenerateContentConfig{Temperature: &temperature, MaxOutputTokens: 8192}

	text, err := withRetry(ctx, g.log, g.limiter, g.retry, func(ctx context.Context) (string, error) {
		return g.generate(ctx, contents, config)
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("remote parser returned no text")
	}
	return text, nil
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".md":
		return "text/markdown"
	default:
		return "text/plain"
	}
}

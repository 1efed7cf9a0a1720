package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/extraction"
	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/repositories"
)

// NameResolver repairs candidate names that extraction got wrong. It is the
// only path that changes a finalized evaluation.
type NameResolver interface {
	FixNames(ctx context.Context, jobID uuid.UUID) (models.FixNamesResponse, error)
}

type nameResolver struct {
	completer     Completer
	evalRepo      repositories.EvaluationRepository
	jobRepo       repositories.JobRequirementRepository
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

// NewNameResolver builds a resolver. completer may be nil, leaving only the heuristic.
func NewNameResolver(completer Completer, jobRepo repositories.JobRequirementRepository, evalRepo repositories.EvaluationRepository, log *zap.Logger) NameResolver {
	return &nameResolver{
		completer:     completer,
		evalRepo:      evalRepo,
		jobRepo:       jobRepo,
		promptBuilder: NewPromptBuilder(),
		log:           logger.OrNop(log),
	}
}

// FixNames implements NameResolver.
func (n *nameResolver) FixNames(ctx context.Context, jobID uuid.UUID) (models.FixNamesResponse, error) {
	var resp models.FixNamesResponse

	if _, err := findJob(ctx, n.jobRepo, jobID); err != nil {
		return resp, err
	}

	records, err := n.evalRepo.AllByJob(ctx, jobID)
	if err != nil {
		return resp, fmt.Errorf("failed to load evaluations: %w", err)
	}

	for _, record := range records {
		if !needsName(record.CandidateName) || strings.TrimSpace(record.ParsedResumeText) == "" {
			continue
		}
		resp.Checked++

		name := n.resolve(ctx, record.ParsedResumeText)
		if name == "" || name == record.CandidateName {
			continue
		}

		if err := n.evalRepo.UpdateCandidateName(ctx, record.ID, name); err != nil {
			n.log.Warn("candidate name not updated", zap.Stringer(logger.FieldEvaluationID, record.ID), zap.Error(err))
			continue
		}
		n.log.Info("candidate name fixed",
			zap.Stringer(logger.FieldEvaluationID, record.ID),
			zap.String("old", record.CandidateName),
			zap.String("new", name),
		)
		resp.Fixed++
	}

	return resp, nil
}

func (n *nameResolver) resolve(ctx context.Context, text string) string {
	if n.completer != nil {
		out, err := n.completer.Complete(ctx, CompletionRequest{
			Prompt:      n.promptBuilder.BuildNameExtractionPrompt(text),
			Temperature: 0.1,
			MaxTokens:   50,
		})
		if err != nil {
			n.log.Warn("name extraction call failed, using heuristic", zap.Error(err))
		} else if name := cleanName(out); name != "" {
			return name
		}
	}
	return extraction.Name(text)
}

func needsName(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, models.UnknownCandidate) || !extraction.LooksLikeName(name)
}

// cleanName keeps the first line of a completion and rejects anything that
// does not look like a person's name.
func cleanName(out string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	line = strings.Trim(strings.TrimSpace(line), `"'*.`)
	line = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))

	if line == "" || strings.ContainsAny(line, "@/:") || strings.EqualFold(line, models.UnknownCandidate) || !extraction.LooksLikeName(line) {
		return ""
	}
	return line
}

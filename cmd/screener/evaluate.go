package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/ranking"
	"alfredoptarigan/cv-screener/internal/repositories"
	"alfredoptarigan/cv-screener/internal/services"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [files or directories...]",
	Short: "Score resumes against a job requirement",
	Long:  "Scores every .pdf, .txt and .md resume found in the arguments against the YAML job requirement, then prints the ranking and statistics.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEvaluate,
}

var (
	evaluateJob         string
	evaluateConcurrency int
	evaluateOutput      string
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateJob, "job", "j", "", "Path to the job requirement YAML file (required)")
	evaluateCmd.Flags().IntVarP(&evaluateConcurrency, "concurrency", "c", 0, "Resumes scored at once (default BATCH_FOREGROUND_CONCURRENCY)")
	evaluateCmd.Flags().StringVarP(&evaluateOutput, "out", "o", "", "Optional path for the full JSON report")

	if err := evaluateCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(evaluateCmd)
}

type evaluationReport struct {
	Job        *models.JobRequirement         `json:"job"`
	Summary    models.BatchEvaluationResponse `json:"summary"`
	Rankings   []*models.Evaluation           `json:"rankings"`
	Statistics ranking.Statistics             `json:"statistics"`
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	job, err := loadJob(evaluateJob)
	if err != nil {
		return err
	}

	docs, err := collectResumes(args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no resumes found in %s", strings.Join(args, ", "))
	}

	ctx := context.Background()
	gemini, completer, err := services.NewProviders(ctx, cfg, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize AI provider: %w", err)
	}

	var remote services.DocumentParser
	if cfg.Parser.RemoteEnabled && gemini != nil {
		remote = gemini
	}

	store := repositories.NewMemoryStore()
	if err := store.Jobs().Create(ctx, job); err != nil {
		return err
	}

	evaluator := services.NewResumeEvaluator(
		services.NewDocumentExtractor(remote, services.NewLocalTextExtractor(), zl),
		services.NewScoringEngine(completer, services.ScoringOptionsFrom(cfg), zl),
		store.Jobs(),
		store.Evaluations(),
		nil,
		zl,
	)
	coordinator := services.NewBatchCoordinator(evaluator, store.Jobs(), nil, nil, services.BatchOptions{
		ForegroundConcurrency: cfg.Batch.ForegroundConcurrency,
	}, zl)

	records, err := coordinator.RunBatch(ctx, job.ID, docs, evaluateConcurrency)
	if err != nil {
		return err
	}

	report := evaluationReport{
		Job:        job,
		Summary:    services.Summarize(job.ID, records),
		Rankings:   ranking.Rank(records),
		Statistics: ranking.Aggregate(records),
	}

	printReport(cmd.OutOrStdout(), report)

	if evaluateOutput != "" {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := os.WriteFile(evaluateOutput, out, 0644); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", evaluateOutput, err)
		}
	}
	return nil
}

func loadJob(path string) (*models.JobRequirement, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %s: %w", path, err)
	}

	var job models.JobRequirement
	if err := yaml.Unmarshal(content, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job YAML: %w", err)
	}

	job.ApplyDefaults()
	if err := validator.New().Struct(&job); err != nil {
		return nil, fmt.Errorf("invalid job requirement: %w", err)
	}
	return &job, nil
}

// collectResumes expands directories into the resume files they contain, in
// lexical order. Explicit file arguments are kept whatever their extension.
func collectResumes(args []string) ([]models.ResumeDocument, error) {
	var docs []models.ResumeDocument
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			docs = append(docs, models.ResumeDocument{Path: arg, FileName: filepath.Base(arg)})
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".pdf", ".txt", ".md":
				if !d.IsDir() {
					found = append(found, path)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}

		sort.Strings(found)
		for _, path := range found {
			docs = append(docs, models.ResumeDocument{Path: path, FileName: filepath.Base(path)})
		}
	}
	return docs, nil
}

func printReport(w io.Writer, report evaluationReport) {
	fmt.Fprintf(w, "%s: %d processed, %d successful, %d failed\n\n",
		report.Job.Title, report.Summary.TotalProcessed, report.Summary.Successful, report.Summary.Failed)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCANDIDATE\tFILE\tOVERALL\tSKILLS\tEXPERIENCE\tEDUCATION\tRECOMMENDATION")
	for i, r := range report.Rankings {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			i+1, r.CandidateName, r.ResumeFileName, *r.OverallScore,
			scoreText(r.SkillsScore), scoreText(r.ExperienceScore), scoreText(r.EducationScore),
			r.Recommendation)
	}
	_ = tw.Flush()

	for _, e := range report.Summary.Errors {
		fmt.Fprintf(w, "failed: %s: %s\n", e.FileName, e.Error)
	}

	fmt.Fprintf(w, "\naverage score %.1f over %d scored\n", report.Statistics.AverageScore, report.Statistics.ScoredEvaluations)
}

func scoreText(score *int) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprint(*score)
}

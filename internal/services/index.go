package services

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
)

// Embedder turns text into a dense vector.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// CandidateIndex stores resume text as vectors so candidates of one job can
// be searched by free text.
type CandidateIndex interface {
	EnsureCollection(ctx context.Context) error
	IndexEvaluation(ctx context.Context, eval *models.Evaluation) error
	Search(ctx context.Context, jobID uuid.UUID, query string, limit int) ([]models.SearchHit, error)
	RemoveEvaluation(ctx context.Context, evaluationID uuid.UUID) error
}

const (
	payloadEvaluationID = "evaluation_id"
	payloadJobID        = "job_requirement_id"
	payloadCandidate    = "candidate_name"
	payloadText         = "text"

	indexChunkSize    = 1000
	indexChunkOverlap = 100
	snippetLength     = 200
)

type IndexOptions struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize uint64
}

type candidateIndex struct {
	client     *qdrant.Client
	embedder   Embedder
	chunker    TextChunker
	collection string
	vectorSize uint64
	log        *zap.Logger
}

func NewCandidateIndex(opts IndexOptions, embedder Embedder, log *zap.Logger) (CandidateIndex, error) {
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: opts.APIKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	if opts.VectorSize == 0 {
		opts.VectorSize = 768
	}

	return &candidateIndex{
		client:     client,
		embedder:   embedder,
		chunker:    NewTextChunker(),
		collection: opts.Collection,
		vectorSize: opts.VectorSize,
		log:        logger.OrNop(log),
	}, nil
}

// EnsureCollection implements CandidateIndex.
func (c *candidateIndex) EnsureCollection(ctx context.Context) error {
	exists, err := c.client.CollectionExists(ctx, c.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = c.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: c.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     c.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	c.log.Info("qdrant collection created", zap.String("collection", c.collection))
	return nil
}

// IndexEvaluation implements CandidateIndex. Earlier points of the same
// evaluation are replaced.
func (c *candidateIndex) IndexEvaluation(ctx context.Context, eval *models.Evaluation) error {
	chunks := c.chunker.ChunkText(eval.ParsedResumeText, indexChunkSize, indexChunkOverlap)
	if len(chunks) == 0 {
		return nil
	}

	if err := c.RemoveEvaluation(ctx, eval.ID); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := c.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk: %w", err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(pointID()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadEvaluationID: eval.ID.String(),
				payloadJobID:        eval.JobRequirementID.String(),
				payloadCandidate:    eval.CandidateName,
				payloadText:         chunk,
			}),
		})
	}

	_, err := c.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	c.log.Debug("candidate indexed", zap.Stringer(logger.FieldEvaluationID, eval.ID), zap.Int("chunks", len(points)))
	return nil
}

// Search implements CandidateIndex. Hits are best chunk per evaluation, best first.
func (c *candidateIndex) Search(ctx context.Context, jobID uuid.UUID, query string, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		limit = 10
	}

	embedding, err := c.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.collection,
		Query:          qdrant.NewQuery(embedding...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch(payloadJobID, jobID.String()),
			},
		},
		// several chunks per candidate can match
		Limit:       qdrant.PtrOf(uint64(limit * 3)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]models.SearchHit, 0, limit)
	seen := make(map[string]bool)
	for _, point := range points {
		evalID := payloadString(point.Payload, payloadEvaluationID)
		if evalID == "" || seen[evalID] {
			continue
		}
		seen[evalID] = true

		hits = append(hits, models.SearchHit{
			EvaluationID:  evalID,
			CandidateName: payloadString(point.Payload, payloadCandidate),
			Score:         point.Score,
			Snippet:       Excerpt(payloadString(point.Payload, payloadText), snippetLength),
		})
		if len(hits) == limit {
			break
		}
	}

	return hits, nil
}

// RemoveEvaluation implements CandidateIndex.
func (c *candidateIndex) RemoveEvaluation(ctx context.Context, evaluationID uuid.UUID) error {
	_, err := c.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: c.collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch(payloadEvaluationID, evaluationID.String()),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete points: %w", err)
	}
	return nil
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := v.GetKind().(*qdrant.Value_StringValue); ok {
		return s.StringValue
	}
	return ""
}

func pointID() uint64 {
	id := uuid.New()
	return binary.BigEndian.Uint64(id[:8])
}

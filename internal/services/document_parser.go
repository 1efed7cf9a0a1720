package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/extraction"
	"alfredoptarigan/cv-screener/internal/logger"
	"alfredoptarigan/cv-screener/internal/models"
)

// DocumentParser is an optional remote service that turns a file into plain text.
type DocumentParser interface {
	ParseDocument(ctx context.Context, path string) (string, error)
}

// DocumentExtractor converts a resume file into an ExtractedResume.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (*models.ExtractedResume, error)
}

type documentExtractor struct {
	remote DocumentParser
	local  LocalTextExtractor
	now    func() time.Time
	log    *zap.Logger
}

var errEmptyDocument = errors.New("document is empty")

// NewDocumentExtractor builds an extractor. remote may be nil, in which case
// only the local extractor is used.
func NewDocumentExtractor(remote DocumentParser, local LocalTextExtractor, log *zap.Logger) DocumentExtractor {
	if local == nil {
		local = NewLocalTextExtractor()
	}
	return &documentExtractor{
		remote: remote,
		local:  local,
		now:    time.Now,
		log:    logger.OrNop(log),
	}
}

// Extract implements DocumentExtractor. It fails with *ExtractionError only
// when the file is missing, empty, or undecodable by every available path.
func (d *documentExtractor) Extract(ctx context.Context, path string) (*models.ExtractedResume, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &ExtractionError{Path: path, Err: fmt.Errorf("is a directory")}
	}
	if info.Size() == 0 {
		return nil, &ExtractionError{Path: path, Err: errEmptyDocument}
	}

	text, err := d.acquireText(ctx, path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Err: err}
	}

	return extraction.Parse(text, d.now()), nil
}

func (d *documentExtractor) acquireText(ctx context.Context, path string) (string, error) {
	log := d.log.With(zap.String(logger.FieldFile, path))

	if d.remote != nil {
		text, err := d.remote.ParseDocument(ctx, path)
		if err == nil {
			log.Debug("document parsed", zap.String("source", SourceRemote), zap.Int("chars", len(text)))
			return NormalizeText(text), nil
		}
		log.Warn("remote parser failed, falling back to local extractor", zap.Error(err))
	}

	content, err := d.local.ExtractText(path)
	if err != nil {
		return "", err
	}
	log.Debug("document parsed", zap.String("source", content.Source), zap.Int("pages", content.PageCount), zap.Int("chars", len(content.Text)))

	return content.Text, nil
}

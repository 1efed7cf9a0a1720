package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// LocalTextExtractor reads plain text out of a file without any network call.
type LocalTextExtractor interface {
	ExtractText(path string) (*DocumentText, error)
}

type DocumentText struct {
	Text      string
	PageCount int
	Source    string
}

const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

type localTextExtractor struct{}

func NewLocalTextExtractor() LocalTextExtractor {
	return &localTextExtractor{}
}

// ExtractText implements LocalTextExtractor. PDFs go through the page text
// extractor; anything else is read as UTF-8 text. A readable document with no
// text yields an empty string, not an error.
func (p *localTextExtractor) ExtractText(path string) (*DocumentText, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return extractPDF(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("unsupported binary document %s", filepath.Base(path))
	}

	return &DocumentText{Text: NormalizeText(string(data)), PageCount: 1, Source: SourceLocal}, nil
}

func extractPDF(path string) (content *DocumentText, err error) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			content, err = nil, fmt.Errorf("failed to decode PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return &DocumentText{
		Text:      NormalizeText(textBuilder.String()),
		PageCount: totalPage,
		Source:    SourceLocal,
	}, nil
}

// NormalizeText trims trailing whitespace from every line and collapses runs
// of blank lines into one. Single blank lines are kept since they separate sections.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	cleaned := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t ")
		if strings.TrimSpace(line) == "" {
			if blank || len(cleaned) == 0 {
				continue
			}
			blank = true
			cleaned = append(cleaned, "")
			continue
		}
		blank = false
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

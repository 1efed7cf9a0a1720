package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/cv-screener/internal/models"
)

var allowedResumeExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
	".md":  true,
}

// StorageService keeps uploaded resumes on local disk.
type StorageService interface {
	SaveResume(file *multipart.FileHeader) (models.ResumeDocument, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
	publicURL  string
}

// NewStorageService stores files under uploadPath. publicURL, when set, is the
// prefix stamped onto evaluations as the resume's URL.
func NewStorageService(uploadPath, publicURL string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
		publicURL:  strings.TrimRight(publicURL, "/"),
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// SaveResume copies an uploaded resume to a unique file name. The original
// file name is kept on the returned document.
func (s *storageService) SaveResume(file *multipart.FileHeader) (models.ResumeDocument, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedResumeExtensions[ext] {
		return models.ResumeDocument{}, fmt.Errorf("invalid file extension: %q", ext)
	}

	uniqueFilename := fmt.Sprintf("resume_%s%s", uuid.New().String(), ext)
	filePath := s.GetFilePath(uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return models.ResumeDocument{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return models.ResumeDocument{}, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return models.ResumeDocument{}, fmt.Errorf("failed to save file: %w", err)
	}

	doc := models.ResumeDocument{Path: filePath, FileName: filepath.Base(file.Filename)}
	if s.publicURL != "" {
		doc.URL = s.publicURL + "/" + uniqueFilename
	}
	return doc, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	if err := os.Remove(s.GetFilePath(filename)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

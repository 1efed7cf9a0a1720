package handlers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

// resumeUploader saves multipart resume files to storage.
type resumeUploader struct {
	storageService services.StorageService
	maxFileSize    int64
}

type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string { return e.message }

func (e *uploadError) respond(c *fiber.Ctx) error {
	return c.Status(e.status).JSON(fiber.Map{
		"error": e.message,
	})
}

// save reads every file under field and stores it. Sizes are checked before
// anything is written; the extension is checked per file while saving, and a
// rejected file discards the ones already written.
func (u *resumeUploader) save(c *fiber.Ctx, field string) ([]models.ResumeDocument, *uploadError) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &uploadError{fiber.StatusBadRequest, "failed to parse multipart form"}
	}

	files := form.File[field]
	if len(files) == 0 {
		return nil, &uploadError{fiber.StatusBadRequest, fmt.Sprintf("no files found under %q", field)}
	}

	for _, file := range files {
		if file.Size > u.maxFileSize {
			return nil, &uploadError{
				fiber.StatusBadRequest,
				fmt.Sprintf("File %s too large. Max size: %d bytes", file.Filename, u.maxFileSize),
			}
		}
	}

	docs := make([]models.ResumeDocument, 0, len(files))
	for _, file := range files {
		doc, err := u.saveOne(file)
		if err != nil {
			u.discard(docs)
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// discard removes files already saved for a request that is being rejected.
func (u *resumeUploader) discard(docs []models.ResumeDocument) {
	for _, doc := range docs {
		_ = u.storageService.DeleteFile(filepath.Base(doc.Path))
	}
}

func (u *resumeUploader) saveOne(file *multipart.FileHeader) (models.ResumeDocument, *uploadError) {
	doc, err := u.storageService.SaveResume(file)
	if err != nil {
		return models.ResumeDocument{}, &uploadError{
			fiber.StatusBadRequest,
			fmt.Sprintf("failed to save %s: %v", file.Filename, err),
		}
	}
	return doc, nil
}

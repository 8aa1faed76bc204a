package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/ahmedhrayyan/phonebook-backend/internal/metrics"
	"github.com/ahmedhrayyan/phonebook-backend/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultAllowedExtensions are the image types accepted when none are configured.
var DefaultAllowedExtensions = []string{"png", "jpg"}

// UploadService stores user images under generated names and serves them back
type UploadService interface {
	Upload(ctx context.Context, userID int, file *multipart.FileHeader) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}

type uploadService struct {
	store   storage.Store
	allowed map[string]bool
	log     logrus.FieldLogger
}

// NewUploadService creates a new UploadService. Extensions are matched case-insensitively
// and may be given with or without the leading dot.
func NewUploadService(store storage.Store, allowedExtensions []string, log logrus.FieldLogger) UploadService {
	if len(allowedExtensions) == 0 {
		allowedExtensions = DefaultAllowedExtensions
	}
	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[normalizeExt(ext)] = true
	}
	return &uploadService{store: store, allowed: allowed, log: log}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Upload checks the extension against the allow-list, sniffs the content to make
// sure it really is that kind of file, and stores it under a random name.
func (s *uploadService) Upload(ctx context.Context, userID int, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", ErrNoFile
	}
	if fileHeader.Filename == "" {
		return "", ErrNoSelectedFile
	}

	ext := normalizeExt(filepath.Ext(fileHeader.Filename))
	if !s.allowed[ext] {
		metrics.RecordUpload("rejected")
		return "", ErrExtensionNotAllowed
	}

	src, err := fileHeader.Open()
	if err != nil {
		metrics.RecordUpload("failed")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		metrics.RecordUpload("failed")
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	expected := mime.TypeByExtension("." + ext)
	if expected == "" || !detected.Is(expected) {
		metrics.RecordUpload("rejected")
		s.log.WithFields(logrus.Fields{"user_id": userID, "file": fileHeader.Filename, "detected": detected.String()}).
			Warn("upload content does not match its extension")
		return "", ErrFakeFileContent
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		metrics.RecordUpload("failed")
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	if err := s.store.Save(ctx, name, detected.String(), src); err != nil {
		metrics.RecordUpload("failed")
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	metrics.RecordUpload("stored")
	s.log.WithFields(logrus.Fields{"user_id": userID, "file": name}).Info("file uploaded")
	return name, nil
}

// Open returns a stored file and its content type.
func (s *uploadService) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	rc, err := s.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrFileNotFound
		}
		return nil, "", fmt.Errorf("failed to open stored file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rc, contentType, nil
}

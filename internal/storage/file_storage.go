package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/garyjia/docscore/pkg/utils"
)

// UploadStorage keeps uploaded documents on the local filesystem, one
// directory per assessment
type UploadStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewUploadStorage creates a new UploadStorage rooted at baseDir
func NewUploadStorage(baseDir string, logger *zap.Logger) *UploadStorage {
	return &UploadStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

// Save writes content to baseDir/<id>/<sanitized filename> and returns the path
func (s *UploadStorage) Save(id, filename string, content []byte) (string, error) {
	name := utils.SanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}

	fullPath := filepath.Join(s.baseDir, id, name)
	if err := s.ValidatePath(fullPath); err != nil {
		return "", err
	}

	parentDir := filepath.Dir(fullPath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		s.logger.Error("Failed to create upload directory",
			zap.String("path", parentDir),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write upload",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("Upload stored",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return fullPath, nil
}

// ValidatePath checks that the path is safe and within baseDir
func (s *UploadStorage) ValidatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}

	return nil
}

// Package document stores uploaded identity-proof files on disk under
// opaque generated names.
package document

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	errors "github.com/frahmantamala/employee-records/internal"
	"github.com/google/uuid"
)

const (
	// MediaTypePDF is the only accepted content type, compared bit-exact.
	MediaTypePDF = "application/pdf"

	// MinSizeBytes and MaxSizeBytes bound the declared upload size, both inclusive.
	MinSizeBytes = 10 * 1024
	MaxSizeBytes = 1024 * 1024

	fileExtension = ".pdf"
)

type Store struct {
	baseDir string
	logger  *slog.Logger
}

func NewStore(baseDir string, logger *slog.Logger) *Store {
	return &Store{baseDir: baseDir, logger: logger}
}

// Store validates the declared content type and size, then writes the bytes
// under a fresh UUID name. The exclusive create flag guarantees an existing
// file is never overwritten.
func (s *Store) Store(content []byte, contentType string, size int64) (string, error) {
	if contentType != MediaTypePDF {
		return "", errors.NewValidationError("Only PDF files are allowed", errors.ErrCodeInvalidFileType)
	}
	if size < MinSizeBytes {
		return "", errors.NewValidationError(
			fmt.Sprintf("File size must be at least %d KB", MinSizeBytes/1024), errors.ErrCodeFileTooSmall)
	}
	if size > MaxSizeBytes {
		return "", errors.NewValidationError(
			fmt.Sprintf("File size must not exceed %d KB", MaxSizeBytes/1024), errors.ErrCodeFileTooLarge)
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", errors.NewInternalError("failed to create upload directory", err)
	}

	name := uuid.NewString() + fileExtension

	file, err := os.OpenFile(filepath.Join(s.baseDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.NewInternalError("failed to create document file", err)
	}

	if _, err := file.Write(content); err != nil {
		file.Close()
		os.Remove(filepath.Join(s.baseDir, name))
		return "", errors.NewInternalError("failed to write document file", err)
	}

	if err := file.Close(); err != nil {
		return "", errors.NewInternalError("failed to close document file", err)
	}

	s.logger.Debug("document stored", "file_name", name, "size", size)

	return name, nil
}

// Delete removes a stored document; a missing file is not an error.
func (s *Store) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.baseDir, name))
	if err != nil && !os.IsNotExist(err) {
		return errors.NewInternalError("failed to delete document file", err)
	}

	return nil
}

// Open returns a read handle on a stored document.
func (s *Store) Open(name string) (io.ReadCloser, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrIDProofNotFound
		}
		return nil, errors.NewInternalError("failed to open document file", err)
	}

	return file, nil
}

// validateName rejects anything that could escape the base directory; stored
// names are always a bare UUID plus extension.
func validateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, "/\\") {
		return errors.NewValidationError("Invalid document name", errors.ErrCodeInvalidFileName)
	}
	return nil
}

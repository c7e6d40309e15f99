// Package fs provides file system operations for unit and tmpfiles management
package fs

import (
	"crypto/sha1" //nolint:gosec // Not used for security purposes, just content comparison
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/systemd-tools/timer-ops/internal/config"
	"github.com/systemd-tools/timer-ops/internal/log"
)

// Unit files must be readable by systemd; tmpfiles snippets are managed
// read-only.
const unitFileMode fs.FileMode = 0o644

// Service provides file system operations with configurable paths.
type Service struct {
	configProvider config.Provider
	logger         log.Logger
}

// NewService creates a new filesystem service with the given config provider.
func NewService(configProvider config.Provider) *Service {
	return &Service{
		configProvider: configProvider,
		logger:         log.NewLogger(configProvider.GetConfig().Verbose),
	}
}

// NewServiceWithLogger creates a new filesystem service with explicit logger injection.
func NewServiceWithLogger(configProvider config.Provider, logger log.Logger) *Service {
	return &Service{
		configProvider: configProvider,
		logger:         logger,
	}
}

// GetUnitFilePath returns the full path for a unit file name such as
// "backup.timer".
func (s *Service) GetUnitFilePath(filename string) string {
	return filepath.Join(s.configProvider.GetConfig().UnitDir, filename)
}

// GetUnitFilesDirectory returns the directory where unit files are stored.
func (s *Service) GetUnitFilesDirectory() string {
	return s.configProvider.GetConfig().UnitDir
}

// GetTmpfilesDirectory returns the directory for tmpfiles.d entries.
func (s *Service) GetTmpfilesDirectory() string {
	return s.configProvider.GetConfig().TmpfilesDir
}

// HasChanged checks if the content of a managed file differs from the
// given content. A missing or unreadable file counts as changed.
func (s *Service) HasChanged(path, content string) bool {
	existingContent, err := os.ReadFile(path) //nolint:gosec // Safe as path is internally constructed, not user-controlled
	if err != nil {
		return true
	}

	s.logger.Debug("Content hash comparison",
		"existing", fmt.Sprintf("%x", GetContentHash(string(existingContent))),
		"new", fmt.Sprintf("%x", GetContentHash(content)))

	if string(existingContent) == content {
		s.logger.Debug("File unchanged, skipping", "path", path)
		return false
	}

	return true
}

// WriteUnitFile writes unit content to the specified file path.
func (s *Service) WriteUnitFile(path, content string) error {
	s.logger.Debug("Writing unit file", "path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create unit directory: %w", err)
	}

	return os.WriteFile(path, []byte(content), unitFileMode)
}

// WriteFile writes content with an explicit mode, replacing any existing
// file. Replacement rather than truncation: managed tmpfiles are mode
// 0444 and cannot be reopened for writing.
func (s *Service) WriteFile(path, content string, mode fs.FileMode) error {
	s.logger.Debug("Writing file", "path", path, "mode", mode)

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return err
	}

	// WriteFile applies mode only at creation and umask may mask bits.
	return os.Chmod(path, mode)
}

// RemoveFile removes a managed file. A file that is already gone is not
// an error.
func (s *Service) RemoveFile(path string) error {
	s.logger.Debug("Removing file", "path", path)

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// GetContentHash calculates a SHA1 hash for content storage and change tracking.
func (s *Service) GetContentHash(content string) []byte {
	return GetContentHash(content)
}

// GetContentHash calculates a SHA1 hash for content storage and change tracking.
func GetContentHash(content string) []byte {
	hash := sha1.New() //nolint:gosec // Not used for security purposes, just for content tracking
	hash.Write([]byte(content))
	return hash.Sum(nil)
}

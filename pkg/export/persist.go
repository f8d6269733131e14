// File: pkg/export/persist.go
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// OutputDirMissing reports whether the parent directory of outputPath is absent.
func OutputDirMissing(outputPath string) (string, bool) {
	dir := filepath.Dir(outputPath)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return dir, true
	}
	return dir, false
}

// EnsureDirectory ensures a directory exists, creating it if necessary.
func EnsureDirectory(path string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}

// WriteOutput persists data at outputPath. Concurrent exports to the same
// path are serialized with an advisory lock, and the file is replaced by
// rename so readers never see a partial document. The parent directory must
// already exist.
func WriteOutput(outputPath string, data []byte, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	lock := flock.New(lockPathFor(outputPath))
	if err := lock.Lock(); err != nil {
		logger.Error("Failed to acquire output lock", zap.String("file", outputPath), zap.Error(err))
		return fmt.Errorf("failed to acquire lock for %s: %w", outputPath, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("Failed to release output lock", zap.String("file", outputPath), zap.Error(err))
		}
	}()

	if err := atomicWrite(outputPath, data); err != nil {
		logger.Error("Failed to write output file", zap.String("file", outputPath), zap.Error(err))
		return err
	}
	logger.Debug("Successfully wrote output file", zap.String("file", outputPath), zap.Int("bytes", len(data)))
	return nil
}

// lockPathFor keeps lock files out of the exported tree.
func lockPathFor(outputPath string) string {
	abs, err := filepath.Abs(outputPath)
	if err != nil {
		abs = outputPath
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "direxport-"+hex.EncodeToString(sum[:8])+".lock")
}

// atomicWrite writes through a temp file in the target directory and renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, ".direxport-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	committed := false
	defer func() {
		if !committed {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	committed = true
	return nil
}

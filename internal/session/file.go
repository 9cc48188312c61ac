package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gofrs/flock"

	"github.com/hpungsan/aas/internal/config"
	"github.com/hpungsan/aas/internal/errors"
)

// MaxFileSize caps session files read from disk.
const MaxFileSize = 512 << 20

// WriteFile validates path and writes data through a temp file and atomic
// rename, so an existing file survives a failed write. A sibling .lock file
// is held for the duration.
func WriteFile(path string, data []byte, cfg *config.Config) error {
	if err := ValidatePath(path, PathCheckWrite, cfg); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	unlock, err := lock(path)
	if err != nil {
		return err
	}
	defer unlock()

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create session file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	// close before rename; Windows refuses to rename an open file
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close session file: %w", err))
	}
	file = nil

	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidParameter("export path is a symlink")
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidParameter("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}

// ReadFile validates path and returns its contents.
func ReadFile(path string, cfg *config.Config) ([]byte, error) {
	if err := ValidatePath(path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(path)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open session file: %w", err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if len(data) > MaxFileSize {
		return nil, errors.NewInvalidParameter(fmt.Sprintf("session file exceeds %d bytes", MaxFileSize))
	}
	return data, nil
}

// lock takes an exclusive, non-blocking lock on path+".lock". The lock file
// is never removed.
func lock(path string) (func(), error) {
	fl := flock.New(path + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("acquire lock: %w", err))
	}
	if !ok {
		return nil, errors.NewInvalidParameter(fmt.Sprintf("session file %s is in use by another process", path))
	}
	return func() { _ = fl.Unlock() }, nil
}

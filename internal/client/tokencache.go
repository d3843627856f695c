package client

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenCache persists the current session token between runs. The
// server keeps no session state, so this is the only session record.
type TokenCache interface {
	// Load returns the cached token, or "" when none is cached.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenCache stores the token in a single file.
type FileTokenCache struct {
	path string
}

// NewFileTokenCache constructs a cache at the given path.
func NewFileTokenCache(path string) *FileTokenCache {
	return &FileTokenCache{path: path}
}

// DefaultTokenCache places the token under the user config directory.
func DefaultTokenCache() (*FileTokenCache, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewFileTokenCache(filepath.Join(configDir, "nimbus-console", "token")), nil
}

func (c *FileTokenCache) Load() (string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *FileTokenCache) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.path, []byte(token+"\n"), 0o600)
}

func (c *FileTokenCache) Clear() error {
	err := os.Remove(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

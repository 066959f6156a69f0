package prefs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zwdscn-cloud/JFreports/pkg/observability"
)

const fileBackend = "prefs-file"

// FileStore keeps each preference in its own file. Keys are hashed into
// the file name so any key is a safe path.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store in dir.
// If dir is empty, defaults to ~/.config/jfreports/prefs/
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "jfreports", "prefs")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// entry wraps the stored value with its key so files can be inspected by
// hand.
type entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		observability.Store().OnRead(ctx, fileBackend, key, false)
		return "", false, nil
	}
	if err != nil {
		observability.Store().OnError(ctx, fileBackend, "get", err)
		return "", false, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Key != key {
		// Unreadable entry - treat as missing
		_ = os.Remove(path)
		observability.Store().OnRead(ctx, fileBackend, key, false)
		return "", false, nil
	}
	observability.Store().OnRead(ctx, fileBackend, key, true)
	return e.Value, true, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	data, err := json.Marshal(entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		observability.Store().OnError(ctx, fileBackend, "set", err)
		return err
	}
	observability.Store().OnWrite(ctx, fileBackend, key, len(data))
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) Close() error { return nil }

// Dir returns the directory holding preference files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:8])+".json")
}

var _ Store = (*FileStore)(nil)

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/observability"
)

const fileBackend = "file"

// FileStore keeps each dashboard as <name>.json in a directory. The files
// are ordinary dashboard documents that the editor can open directly.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/jfreports/dashboards/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "jfreports", "dashboards")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create dashboard dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) docPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Get(ctx context.Context, name string) (dashboard.Document, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return dashboard.Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.docPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			observability.Store().OnRead(ctx, fileBackend, name, false)
			return dashboard.Document{}, notFound(name)
		}
		return dashboard.Document{}, storageErr(ctx, fileBackend, "get", err, "read dashboard %q", name)
	}
	observability.Store().OnRead(ctx, fileBackend, name, true)
	return decode(name, data)
}

func (s *FileStore) Put(ctx context.Context, name string, doc dashboard.Document) error {
	body, _, err := encode(name, doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Write then rename so readers never see a half-written file.
	tmp := s.docPath(name) + ".tmp"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		return storageErr(ctx, fileBackend, "put", err, "write dashboard %q", name)
	}
	if err := os.Rename(tmp, s.docPath(name)); err != nil {
		_ = os.Remove(tmp)
		return storageErr(ctx, fileBackend, "put", err, "write dashboard %q", name)
	}
	observability.Store().OnWrite(ctx, fileBackend, name, len(body))
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateDocumentName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.docPath(name)); err != nil {
		if os.IsNotExist(err) {
			return notFound(name)
		}
		return storageErr(ctx, fileBackend, "delete", err, "remove dashboard %q", name)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, storageErr(ctx, fileBackend, "list", err, "read dashboard dir")
	}

	var out []Info
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var probe struct {
			Elements []json.RawMessage `json:"elements"`
		}
		if err := json.Unmarshal(data, &probe); err != nil {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Name:      strings.TrimSuffix(entry.Name(), ".json"),
			UpdatedAt: fi.ModTime().UTC(),
			Elements:  len(probe.Elements),
			Size:      len(data),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for dashboard files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sudalaiyandi2004/cyber-backend/internal/api/metrics"
	"github.com/sudalaiyandi2004/cyber-backend/internal/core/ports"
)

// LocalStore persists attachments on the local filesystem. The generated
// file name doubles as the deletion handle; URLs are served statically
// under baseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the storage directory when missing.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the storage directory, for mounting as a static route.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Upload(_ context.Context, filename, _ string, r io.Reader, _ int64) (*ports.MediaUpload, error) {
	key := uuid.NewString() + path.Ext(filename)

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return nil, fmt.Errorf("media create: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("media write: %w", err)
	}

	metrics.MediaUploadsTotal.WithLabelValues("local").Inc()

	return &ports.MediaUpload{
		URL: s.baseURL + "/" + key,
		Key: key,
	}, nil
}

// Delete removes the stored file. The key is constrained to a bare file name
// so it cannot escape the storage directory.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	if key == "" || key != filepath.Base(key) {
		return fmt.Errorf("media delete: invalid key %q", key)
	}
	return os.Remove(filepath.Join(s.dir, key))
}

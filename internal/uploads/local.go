package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore saves images to a directory served by the API under /uploads.
type LocalStore struct {
	Dir     string
	BaseURL string
}

// NewLocalStore creates dir if it doesn't exist.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	savePath := filepath.Join(s.Dir, name)

	f, err := os.OpenFile(savePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(savePath)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return fmt.Sprintf("%s/uploads/%s", s.BaseURL, name), nil
}

// Delete ignores URLs that were not produced by this store and files that are
// already gone.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	prefix := s.BaseURL + "/uploads/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, prefix))
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

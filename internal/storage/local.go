package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrBadPath is returned for object paths that would escape the storage root.
var ErrBadPath = errors.New("invalid object path")

// Local keeps uploads on disk under Dir. Files are served by the HTTP router
// under PublicURL, so download URLs are plain links.
type Local struct {
	Dir       string
	PublicURL string
}

// NewLocal creates the root directory if needed.
func NewLocal(dir, publicURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{Dir: dir, PublicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (l *Local) resolve(objectPath string) (string, error) {
	clean := path.Clean("/" + objectPath)
	if clean == "/" || strings.Contains(objectPath, "..") {
		return "", fmt.Errorf("%w: %q", ErrBadPath, objectPath)
	}
	return filepath.Join(l.Dir, filepath.FromSlash(clean)), nil
}

// Upload writes body to objectPath and returns the stored path.
func (l *Local) Upload(ctx context.Context, objectPath string, body io.Reader, contentType string) (string, error) {
	full, err := l.resolve(objectPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("local upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("local upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("local upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("local upload: %w", err)
	}
	return objectPath, nil
}

func (l *Local) DownloadURL(ctx context.Context, objectPath string) (string, error) {
	full, err := l.resolve(objectPath)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(full); err != nil {
		return "", fmt.Errorf("local object %s: %w", objectPath, err)
	}
	return l.PublicURL + "/" + strings.TrimPrefix(objectPath, "/"), nil
}

// Delete removes the object. Deleting a missing object is not an error.
func (l *Local) Delete(ctx context.Context, objectPath string) error {
	full, err := l.resolve(objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("local delete: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/goalboard/core/internal/infrastructure/config"
	"github.com/goalboard/core/internal/ports"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-]`)

// DiskFileStore implements the FileStore interface against the local
// filesystem. Objects are written under baseDir and served publicly at
// publicBaseURL; the relative path doubles as the object's identity.
type DiskFileStore struct {
	baseDir       string
	publicBaseURL string
}

// NewDiskFileStore creates a new disk-backed file store
func NewDiskFileStore(cfg config.StorageConfig) (*DiskFileStore, error) {
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	return &DiskFileStore{
		baseDir:       cfg.BaseDir,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// sanitizeName keeps filenames URL- and filesystem-safe.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	return name
}

// objectPath builds the stable storage path for an upload. The
// timestamp prefix keeps repeated uploads of the same filename from
// colliding.
func objectPath(slug, date, filename string) string {
	return fmt.Sprintf("%s/%s/%d-%s", slug, date, time.Now().UnixMilli(), sanitizeName(filename))
}

func (s *DiskFileStore) Upload(ctx context.Context, slug, date, filename, contentType string, content io.Reader) (ports.StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return ports.StoredFile{}, err
	}

	path := objectPath(slug, date, filename)
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(path))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return ports.StoredFile{}, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return ports.StoredFile{}, fmt.Errorf("create file %s: %w", path, err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(fullPath)
		return ports.StoredFile{}, fmt.Errorf("write file %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return ports.StoredFile{}, fmt.Errorf("close file %s: %w", path, err)
	}

	return ports.StoredFile{
		URL:  s.publicBaseURL + "/" + path,
		Path: path,
	}, nil
}

func (s *DiskFileStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Reject traversal outside the storage root.
	clean := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid storage path: %s", path)
	}

	fullPath := filepath.Join(s.baseDir, clean)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("delete file %s: %w", path, err)
	}

	return nil
}

// BaseDir exposes the storage root for static file serving.
func (s *DiskFileStore) BaseDir() string {
	return s.baseDir
}

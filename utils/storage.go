package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Bucket names for uploaded images.
const (
	BucketProducts  = "products"
	BucketBlogPosts = "blog_posts"
)

// Storage persists uploaded files under per-bucket directories and serves
// them back at public URLs under /uploads/.
type Storage struct {
	root    string
	baseURL string
}

// NewStorage builds a Storage rooted at UPLOAD_DIR (default "uploads");
// public URLs are prefixed with PUBLIC_BASE_URL.
func NewStorage() *Storage {
	root := os.Getenv("UPLOAD_DIR")
	if root == "" {
		root = "uploads"
	}
	return &Storage{
		root:    root,
		baseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
	}
}

// Root returns the directory uploads are stored under.
func (s *Storage) Root() string { return s.root }

// ObjectKey builds the storage key for an uploaded file,
// "{entityId}/{timestamp}.{ext}".
func ObjectKey(entityID, filename string) string {
	return ObjectKeyAt(entityID, filename, time.Now())
}

// ObjectKeyAt is ObjectKey with an explicit timestamp.
func ObjectKeyAt(entityID, filename string, t time.Time) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return fmt.Sprintf("%s/%d.%s", entityID, t.UnixMilli(), ext)
}

// Upload writes the file into the bucket under key and returns its public
// URL.
func (s *Storage) Upload(bucket, key string, r io.Reader) (string, error) {
	path := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s/%s", s.baseURL, bucket, key), nil
}

package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeyFormat(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	key := ObjectKeyAt("abc123", "photo.jpg", at)
	assert.Equal(t, "abc123/1700000000000.jpg", key)

	key = ObjectKeyAt("abc123", "archive.tar.gz", at)
	assert.Equal(t, "abc123/1700000000000.gz", key)
}

func TestUploadWritesFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	s := &Storage{root: dir, baseURL: "https://shop.example.com"}

	url, err := s.Upload(BucketProducts, "abc123/1700000000000.jpg", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/uploads/products/abc123/1700000000000.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "products", "abc123", "1700000000000.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

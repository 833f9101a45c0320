// Package imagestore persists uploaded listing photos. The disk store is
// what production runs behind a static file route; the placeholder store
// serves development and CI without any writes.
package imagestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/xfinitykamal-cmd/merobhumi-sub000/workflow"
)

// StockPhotoURL is what the placeholder store hands back for every
// upload.
const StockPhotoURL = "https://images.unsplash.com/photo-1564013799919-ab600027ffc6?w=1200"

// DiskStore writes images under dir and returns URLs below baseURL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *DiskStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image %q", filename)
	}
	ext := filepath.Ext(filename)
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing image %q: %w", filename, err)
	}
	return s.baseURL + "/uploads/" + name, nil
}

// PlaceholderStore never stores anything and never fails.
type PlaceholderStore struct{}

func (PlaceholderStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	return StockPhotoURL, nil
}

// NewFromEnv picks the store from IMAGE_STORE: "placeholder" (also the
// default when UPLOAD_DIR is unset) or "disk".
func NewFromEnv() (workflow.ImageStore, error) {
	mode := os.Getenv("IMAGE_STORE")
	dir := os.Getenv("UPLOAD_DIR")
	if mode == "placeholder" || (mode == "" && dir == "") {
		return PlaceholderStore{}, nil
	}
	if dir == "" {
		dir = "uploads"
	}
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return NewDiskStore(dir, baseURL)
}

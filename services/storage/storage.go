package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryStore uploads therapist photos to Cloudinary.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	logger *zap.Logger
}

// NewCloudinaryStore builds a store from a CLOUDINARY_URL style connection string.
func NewCloudinaryStore(cloudinaryURL string, logger *zap.Logger) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	logger.Info("Cloudinary image store initialized", zap.String("cloud", cld.Config.Cloud.CloudName))
	return &CloudinaryStore{cld: cld, logger: logger}, nil
}

// Upload stores file under folder/name and returns its secure URL.
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, folder, name string) (string, error) {
	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       strings.TrimSuffix(name, path.Ext(name)),
		Overwrite:      api.Bool(true),
		ResourceType:   "image",
		UniqueFilename: api.Bool(false),
	}
	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload: no URL returned")
	}
	s.logger.Debug("Image uploaded", zap.String("publicId", result.PublicID))
	return result.SecureURL, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}

// MemoryStore keeps uploads in memory and serves them from a fake base URL.
// Used when no Cloudinary account is configured.
type MemoryStore struct {
	mu      sync.Mutex
	baseURL string
	files   map[string][]byte
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{baseURL: strings.TrimRight(baseURL, "/"), files: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(_ context.Context, file io.Reader, folder, name string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}
	id := path.Join(folder, name)
	s.mu.Lock()
	s.files[id] = data
	s.mu.Unlock()
	return s.baseURL + "/" + id, nil
}

func (s *MemoryStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	delete(s.files, publicID)
	s.mu.Unlock()
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"webcarros-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const previewLifetime = 15 * time.Minute

// ErrUnsupportedFormat is returned for uploads outside the image allow-list
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrImageNotFound is returned when a draft image is not in the caller's list
var ErrImageNotFound = errors.New("image not found")

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ImageService uploads listing photos to object storage and keeps, per user,
// the ordered list of uploads not yet attached to a listing. The list order
// is completion order: concurrent uploads race freely.
type ImageService struct {
	storage ObjectStorage

	mu     sync.RWMutex
	drafts map[uuid.UUID][]models.DraftImage
}

// NewImageService creates a new image service
func NewImageService(storage ObjectStorage) *ImageService {
	return &ImageService{
		storage: storage,
		drafts:  make(map[uuid.UUID][]models.DraftImage),
	}
}

// Upload stores one image under images/{user}/{random id} and appends its
// descriptor to the user's draft list
func (s *ImageService) Upload(ctx context.Context, userID uuid.UUID, contentType string, body io.Reader) (models.DraftImage, error) {
	if !allowedImageTypes[contentType] {
		return models.DraftImage{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}

	name := uuid.New().String()
	key := fmt.Sprintf("images/%s/%s", userID, name)

	if err := s.storage.Upload(ctx, key, contentType, body); err != nil {
		return models.DraftImage{}, fmt.Errorf("failed to upload image: %w", err)
	}

	image := models.DraftImage{
		UID:  userID.String(),
		Name: name,
		URL:  s.storage.PublicURL(key),
	}

	previewURL, err := s.storage.PresignGet(ctx, key, previewLifetime)
	if err != nil {
		// The durable URL still works as a preview.
		log.Warn().Err(err).Str("key", key).Msg("Failed to presign preview URL")
		previewURL = image.URL
	}
	image.PreviewURL = previewURL

	s.mu.Lock()
	s.drafts[userID] = append(s.drafts[userID], image)
	s.mu.Unlock()

	return image, nil
}

// Delete removes the draft image with the given URL. The stored object is
// deleted first; if that fails the error is logged, the draft list is left
// unchanged and no error is surfaced.
func (s *ImageService) Delete(ctx context.Context, userID uuid.UUID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := s.drafts[userID]
	idx := -1
	for i, image := range images {
		if image.URL == url {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrImageNotFound
	}

	key := fmt.Sprintf("images/%s/%s", images[idx].UID, images[idx].Name)
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete stored image")
		return nil
	}

	s.drafts[userID] = append(images[:idx:idx], images[idx+1:]...)
	return nil
}

// List returns the user's draft images in accumulation order
func (s *ImageService) List(userID uuid.UUID) []models.DraftImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	images := make([]models.DraftImage, len(s.drafts[userID]))
	copy(images, s.drafts[userID])
	return images
}

// Clear drops the user's draft list. Called after the drafts have been
// attached to a persisted listing.
func (s *ImageService) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
}

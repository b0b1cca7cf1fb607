package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"webcarros-backend/internal/middleware"
	"webcarros-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// 10 MB, matching what a listing photo can reasonably be
const maxUploadSize = 10 << 20

// ImageHandler handles listing photo HTTP requests
type ImageHandler struct {
	imageService *services.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

// Upload handles POST /v1/images
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := h.imageService.Upload(ctx, user.ID, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFormat) {
			respondError(w, "image must be jpeg or png", http.StatusUnsupportedMediaType)
			return
		}
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to upload image")
		respondError(w, "Failed to upload image", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("name", image.Name).
		Msg("Image uploaded")

	respondJSON(w, http.StatusCreated, image)
}

// List handles GET /v1/images
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	respondJSON(w, http.StatusOK, h.imageService.List(user.ID))
}

// DeleteRequest represents the request body for removing a draft image
type DeleteRequest struct {
	URL string `json:"url"`
}

// Delete handles DELETE /v1/images
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		respondError(w, "url is required", http.StatusBadRequest)
		return
	}

	if err := h.imageService.Delete(ctx, user.ID, req.URL); err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			respondError(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to delete image")
		respondError(w, "Failed to delete image", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"webcarros-backend/internal/middleware"
	"webcarros-backend/internal/repository"
	"webcarros-backend/internal/services"
	"webcarros-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// CarHandler handles car listing HTTP requests
type CarHandler struct {
	carService *services.CarService
	feedHub    *services.FeedHub
	validate   *validator.Validate
}

// NewCarHandler creates a new car handler
func NewCarHandler(carService *services.CarService, feedHub *services.FeedHub, validate *validator.Validate) *CarHandler {
	return &CarHandler{
		carService: carService,
		feedHub:    feedHub,
		validate:   validate,
	}
}

// Create handles POST /v1/cars
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var req services.CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondFieldErrors(w, validation.Messages(err))
		return
	}

	car, err := h.carService.Create(ctx, user, req)
	if err != nil {
		if errors.Is(err, services.ErrNoImages) {
			respondError(w, "upload at least one image for this car", http.StatusUnprocessableEntity)
			return
		}
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to create listing")
		respondError(w, "Failed to create listing", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("car_id", car.ID).
		Str("name", car.Name).
		Msg("Listing created")

	h.feedHub.BroadcastListingCreated(car)

	respondJSON(w, http.StatusCreated, car)
}

// List handles GET /v1/cars, with optional ?name= prefix search
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	term := r.URL.Query().Get("name")

	cars, err := h.carService.Search(ctx, term)
	if err != nil {
		log.Error().Err(err).Str("term", term).Msg("Failed to list cars")
		respondError(w, "Failed to list cars", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, cars)
}

// Get handles GET /v1/cars/{id}
func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	car, err := h.carService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, "car not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("car_id", id).Msg("Failed to get car")
		respondError(w, "Failed to get car", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, car)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"webcarros-backend/internal/models"
	"webcarros-backend/internal/repository"
)

// ErrNoImages is returned when a listing is submitted without any uploaded
// images
var ErrNoImages = errors.New("listing must have at least one image")

// CreateCarRequest carries the listing form fields
type CreateCarRequest struct {
	Name        string `json:"name" validate:"required"`
	Model       string `json:"model" validate:"required"`
	Year        string `json:"year" validate:"required"`
	Km          string `json:"km" validate:"required"`
	Price       string `json:"price" validate:"required"`
	City        string `json:"city" validate:"required"`
	Whatsapp    string `json:"whatsapp" validate:"required,whatsapp"`
	Description string `json:"description" validate:"required"`
}

// CarService handles listing creation, browsing and search
type CarService struct {
	cars   repository.CarStore
	images *ImageService
}

// NewCarService creates a new car service
func NewCarService(cars repository.CarStore, images *ImageService) *CarService {
	return &CarService{
		cars:   cars,
		images: images,
	}
}

// Create persists a listing from the form fields and the user's accumulated
// draft images. The draft list is cleared only after a successful write, so a
// failed submit can be retried as-is.
func (s *CarService) Create(ctx context.Context, user *models.User, req CreateCarRequest) (*models.Car, error) {
	drafts := s.images.List(user.ID)
	if len(drafts) == 0 {
		return nil, ErrNoImages
	}

	images := make([]models.CarImage, 0, len(drafts))
	for _, draft := range drafts {
		images = append(images, models.CarImage{
			UID:  draft.UID,
			Name: draft.Name,
			URL:  draft.URL,
		})
	}

	car := &models.Car{
		Name:        strings.ToUpper(req.Name),
		Model:       req.Model,
		Year:        req.Year,
		Km:          req.Km,
		Price:       req.Price,
		City:        req.City,
		Whatsapp:    req.Whatsapp,
		Description: req.Description,
		Created:     time.Now(),
		Owner:       user.Name,
		UID:         user.ID,
		Images:      images,
	}

	if err := s.cars.CreateCar(ctx, car); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.images.Clear(user.ID)

	return car, nil
}

// List returns all listings, newest first
func (s *CarService) List(ctx context.Context) ([]*models.Car, error) {
	return s.cars.ListCars(ctx)
}

// Search returns listings whose name starts with the given term, uppercased
// before matching since names are stored uppercased. An empty term falls back
// to the full ordered list.
func (s *CarService) Search(ctx context.Context, term string) ([]*models.Car, error) {
	if term == "" {
		return s.cars.ListCars(ctx)
	}
	return s.cars.SearchCarsByName(ctx, strings.ToUpper(term))
}

// GetByID returns a single listing
func (s *CarService) GetByID(ctx context.Context, id string) (*models.Car, error) {
	return s.cars.GetCarByID(ctx, id)
}

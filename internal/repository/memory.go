package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"webcarros-backend/internal/models"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// InMemoryStore is an in-memory implementation of Store, used in tests
type InMemoryStore struct {
	mu           sync.RWMutex
	usersByID    map[uuid.UUID]*models.User
	usersByEmail map[string]*models.User
	carsByID     map[string]*models.Car
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		usersByID:    make(map[uuid.UUID]*models.User),
		usersByEmail: make(map[string]*models.User),
		carsByID:     make(map[string]*models.Car),
	}
}

// --- UserStore ---

func (s *InMemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[user.Email]; exists {
		return fmt.Errorf("user %s: %w", user.Email, ErrDuplicate)
	}

	s.usersByID[user.ID] = user
	s.usersByEmail[user.Email] = user
	return nil
}

func (s *InMemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByEmail[email]
	if !exists {
		return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
	}
	return user, nil
}

func (s *InMemoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByID[id]
	if !exists {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// --- CarStore ---

func (s *InMemoryStore) CreateCar(ctx context.Context, car *models.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	car.ID = ulid.Make().String()
	s.carsByID[car.ID] = car
	return nil
}

func (s *InMemoryStore) GetCarByID(ctx context.Context, id string) (*models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	car, exists := s.carsByID[id]
	if !exists {
		return nil, fmt.Errorf("car %s: %w", id, ErrNotFound)
	}
	return car, nil
}

func (s *InMemoryStore) ListCars(ctx context.Context) ([]*models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cars := make([]*models.Car, 0, len(s.carsByID))
	for _, car := range s.carsByID {
		cars = append(cars, car)
	}

	sort.Slice(cars, func(i, j int) bool {
		if !cars[i].Created.Equal(cars[j].Created) {
			return cars[i].Created.After(cars[j].Created)
		}
		return cars[i].ID > cars[j].ID
	})

	return cars, nil
}

func (s *InMemoryStore) SearchCarsByName(ctx context.Context, prefix string) ([]*models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	upper := prefix + nameRangeSentinel
	cars := []*models.Car{}
	for _, car := range s.carsByID {
		if car.Name >= prefix && car.Name <= upper {
			cars = append(cars, car)
		}
	}
	return cars, nil
}

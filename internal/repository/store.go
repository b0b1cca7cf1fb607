package repository

import (
	"context"
	"errors"
	"fmt"

	"webcarros-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint is violated.
var ErrDuplicate = errors.New("already exists")

// UserStore defines database operations for users
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CarStore defines database operations for car listings. CreateCar assigns
// the listing ID; callers never compute it.
type CarStore interface {
	CreateCar(ctx context.Context, car *models.Car) error
	GetCarByID(ctx context.Context, id string) (*models.Car, error)
	ListCars(ctx context.Context) ([]*models.Car, error)
	SearchCarsByName(ctx context.Context, prefix string) ([]*models.Car, error)
}

// Store aggregates all store interfaces for dependency injection
type Store interface {
	UserStore
	CarStore
}

// PostgresStore implements Store backed by a pgx connection pool
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// RunMigrations executes a migration SQL script
func (s *PostgresStore) RunMigrations(ctx context.Context, migrationSQL string) error {
	if _, err := s.db.Exec(ctx, migrationSQL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

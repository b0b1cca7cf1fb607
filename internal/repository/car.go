package repository

import (
	"context"
	"errors"
	"fmt"

	"webcarros-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
)

// nameRangeSentinel is a high codepoint appended to a search prefix to form
// the upper bound of the range, so the query matches every name starting
// with the prefix.
const nameRangeSentinel = "\uf8ff"

// CreateCar creates a new car listing and assigns its ID. ULIDs sort by
// creation time, which keeps listing IDs opaque but ordered.
func (s *PostgresStore) CreateCar(ctx context.Context, car *models.Car) error {
	car.ID = ulid.Make().String()

	query := `
		INSERT INTO cars (id, name, model, year, km, price, city, whatsapp, description, created, owner, uid, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.Exec(ctx, query,
		car.ID, car.Name, car.Model, car.Year, car.Km, car.Price, car.City,
		car.Whatsapp, car.Description, car.Created, car.Owner, car.UID, car.Images,
	)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

// GetCarByID retrieves a car listing by ID
func (s *PostgresStore) GetCarByID(ctx context.Context, id string) (*models.Car, error) {
	query := `
		SELECT id, name, model, year, km, price, city, whatsapp, description, created, owner, uid, images
		FROM cars
		WHERE id = $1
	`
	var car models.Car
	err := s.db.QueryRow(ctx, query, id).Scan(
		&car.ID, &car.Name, &car.Model, &car.Year, &car.Km, &car.Price, &car.City,
		&car.Whatsapp, &car.Description, &car.Created, &car.Owner, &car.UID, &car.Images,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("car %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return &car, nil
}

// ListCars retrieves all car listings ordered by creation time, newest first
func (s *PostgresStore) ListCars(ctx context.Context) ([]*models.Car, error) {
	query := `
		SELECT id, name, model, year, km, price, city, whatsapp, description, created, owner, uid, images
		FROM cars
		ORDER BY created DESC
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	return scanCars(rows)
}

// SearchCarsByName retrieves car listings whose name starts with the given
// prefix. Names are stored uppercased, so the caller is expected to uppercase
// the prefix. Result order is whatever the database returns.
func (s *PostgresStore) SearchCarsByName(ctx context.Context, prefix string) ([]*models.Car, error) {
	query := `
		SELECT id, name, model, year, km, price, city, whatsapp, description, created, owner, uid, images
		FROM cars
		WHERE name >= $1 AND name <= $2
	`
	rows, err := s.db.Query(ctx, query, prefix, prefix+nameRangeSentinel)
	if err != nil {
		return nil, fmt.Errorf("failed to search cars: %w", err)
	}
	defer rows.Close()

	return scanCars(rows)
}

func scanCars(rows pgx.Rows) ([]*models.Car, error) {
	cars := []*models.Car{}
	for rows.Next() {
		var car models.Car
		err := rows.Scan(
			&car.ID, &car.Name, &car.Model, &car.Year, &car.Km, &car.Price, &car.City,
			&car.Whatsapp, &car.Description, &car.Created, &car.Owner, &car.UID, &car.Images,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		cars = append(cars, &car)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cars: %w", err)
	}

	return cars, nil
}

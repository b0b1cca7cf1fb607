package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the system
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CarImage is the persisted metadata of one uploaded photo
type CarImage struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DraftImage is an uploaded photo that has not been attached to a listing
// yet. PreviewURL is a short-lived presigned address and is dropped when the
// listing is persisted.
type DraftImage struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	PreviewURL string `json:"preview_url"`
	URL        string `json:"url"`
}

// Car represents a car listing
type Car struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Model       string     `json:"model"`
	Year        string     `json:"year"`
	Km          string     `json:"km"`
	Price       string     `json:"price"`
	City        string     `json:"city"`
	Whatsapp    string     `json:"whatsapp"`
	Description string     `json:"description"`
	Created     time.Time  `json:"created"`
	Owner       string     `json:"owner"`
	UID         uuid.UUID  `json:"uid"`
	Images      []CarImage `json:"images"`
}

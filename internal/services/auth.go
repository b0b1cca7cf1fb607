package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"webcarros-backend/internal/models"
	"webcarros-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// ErrInvalidCredentials is returned on login with a wrong email or password.
// The message is deliberately generic to avoid account enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailInUse is returned on registration with an already-registered email
var ErrEmailInUse = errors.New("email already in use")

// AuthService handles registration, login and token validation
type AuthService struct {
	users     repository.UserStore
	jwtSecret []byte

	// Revoked token IDs, kept until their tokens would have expired anyway.
	// Logout must tear the session down server side, not just client side.
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		revoked:   make(map[string]time.Time),
	}
}

// Register creates a new account and returns it with a signed token
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailInUse
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates a user and returns it with a signed token
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout revokes the given token. Revoked IDs are dropped once the token
// would have expired on its own.
func (s *AuthService) Logout(tokenString string) error {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return err
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return fmt.Errorf("token has no id")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fmt.Errorf("token has no expiry")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, expiry := range s.revoked {
		if expiry.Before(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[jti] = exp.Time

	return nil
}

// ValidateToken checks a token and returns the user ID it was issued for
func (s *AuthService) ValidateToken(tokenString string) (uuid.UUID, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}

	if jti, _ := claims["jti"].(string); jti != "" && s.isRevoked(jti) {
		return uuid.Nil, fmt.Errorf("token revoked")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get token subject: %w", err)
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token subject is not a valid user id: %w", err)
	}

	return userID, nil
}

// GetUser retrieves the account behind a validated token
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func (s *AuthService) generateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"jti": uuid.New().String(),
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) isRevoked(jti string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, revoked := s.revoked[jti]
	return revoked
}

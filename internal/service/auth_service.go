package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cocktail-odyssey/internal/models"
	"cocktail-odyssey/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService handles registration, login and token resolution.
type AuthService struct {
	users      repository.Users
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(users repository.Users, cfg AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		users:      users,
		signingKey: []byte(cfg.SigningKey),
		tokenTTL:   ttl,
	}
}

var _ Authorization = (*AuthService)(nil)

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// Register validates the fields, hashes the password, creates the user and
// returns a signed token with the public user view.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, models.UserView, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return "", models.UserView{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if email == "" {
		return "", models.UserView{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if strings.TrimSpace(password) == "" {
		return "", models.UserView{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", models.UserView{}, err
	}
	if existing != nil {
		return "", models.UserView{}, ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", models.UserView{}, err
	}

	id, err := s.users.Create(ctx, name, email, hash)
	if err != nil {
		return "", models.UserView{}, err
	}

	token, err := s.issueToken(id)
	if err != nil {
		return "", models.UserView{}, err
	}
	return token, models.UserView{ID: id, Name: name, Email: email}, nil
}

// Login verifies the submitted credentials. Unknown email and wrong
// password both map to ErrInvalidCredentials so the failing field is not
// revealed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.UserView, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", models.UserView{}, err
	}
	if u == nil {
		return "", models.UserView{}, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", models.UserView{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return "", models.UserView{}, err
	}
	return token, u.View(), nil
}

// ParseToken parses JWT and returns userID
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(userID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString(s.signingKey)
}

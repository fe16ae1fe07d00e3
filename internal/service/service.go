package service

import (
	"context"
	"time"

	"cocktail-odyssey/internal/models"
	"cocktail-odyssey/internal/repository"
)

// Authorization covers registration, login and token resolution.
type Authorization interface {
	Register(ctx context.Context, name, email, password string) (string, models.UserView, error)
	Login(ctx context.Context, email, password string) (string, models.UserView, error)
	ParseToken(accessToken string) (int, error)
}

// Cocktails exposes the recipe CRUD with visibility/ownership enforcement.
// callerID == 0 means anonymous throughout.
type Cocktails interface {
	List(ctx context.Context, callerID int, mineOnly bool) ([]models.CocktailView, error)
	Get(ctx context.Context, id, callerID int) (*models.CocktailView, error)
	Create(ctx context.Context, callerID int, p CocktailParams) (*models.CocktailView, error)
	Update(ctx context.Context, id, callerID int, p CocktailParams) (*models.CocktailView, error)
	Delete(ctx context.Context, id, callerID int) error
}

// AuthConfig carries token signing settings from the config layer.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

type Service struct {
	Authorization
	Cocktails
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, authCfg AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, authCfg),
		Cocktails:     NewCocktailService(repos.Cocktails),
	}
}

package repository

import (
	"context"
	"database/sql"

	"cocktail-odyssey/internal/models"
	dbsetup "cocktail-odyssey/internal/repository/db"
)

// Users persists accounts. Lookups return (nil, nil) when no row matches.
type Users interface {
	Create(ctx context.Context, name, email, passwordHash string) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Cocktails persists recipes and their ingredient sets. callerID == 0
// means anonymous in List.
type Cocktails interface {
	List(ctx context.Context, callerID int, mineOnly bool) ([]models.Cocktail, error)
	GetByID(ctx context.Context, id int) (*models.Cocktail, error)
	IngredientsFor(ctx context.Context, cocktailID int) ([]models.Ingredient, error)
	Create(ctx context.Context, c models.Cocktail, ingredients []models.Ingredient) (int, error)
	Update(ctx context.Context, c models.Cocktail, ingredients []models.Ingredient) error
	Delete(ctx context.Context, id int) error
}

type Repository struct {
	Users     Users
	Cocktails Cocktails
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:     NewUserRepository(db),
		Cocktails: NewCocktailRepository(db),
	}
}

// InitDB re-exports the sqlite bootstrap so callers wire only this package.
func InitDB(path string) (*sql.DB, error) {
	return dbsetup.InitDB(path)
}

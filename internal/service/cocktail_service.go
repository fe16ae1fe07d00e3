package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cocktail-odyssey/internal/models"
	"cocktail-odyssey/internal/repository"
)

// Domain errors shared by the cocktail operations. Handlers map these to
// HTTP codes with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("cocktail not found")
	ErrForbidden  = errors.New("access denied")
)

type CocktailService struct {
	cocktails repository.Cocktails
}

func NewCocktailService(cocktails repository.Cocktails) *CocktailService {
	return &CocktailService{cocktails: cocktails}
}

var _ Cocktails = (*CocktailService)(nil)

// canView reports whether callerID (0 = anonymous) may read the cocktail:
// public rows are open to everyone, private rows only to their owner.
func canView(c *models.Cocktail, callerID int) bool {
	return c.IsPublic || (callerID != 0 && callerID == c.UserID)
}

// canMutate reports whether callerID may update or delete the cocktail.
// Only the owner ever may; ownership never transfers.
func canMutate(c *models.Cocktail, callerID int) bool {
	return callerID != 0 && callerID == c.UserID
}

// List returns the cocktails visible to the caller, newest first, each with
// its ingredient set attached. mineOnly restricts to the caller's own rows;
// when requested anonymously it degrades to the public-only listing rather
// than erroring, matching the read-is-best-effort policy.
func (s *CocktailService) List(ctx context.Context, callerID int, mineOnly bool) ([]models.CocktailView, error) {
	if callerID == 0 {
		mineOnly = false
	}
	rows, err := s.cocktails.List(ctx, callerID, mineOnly)
	if err != nil {
		return nil, err
	}

	views := make([]models.CocktailView, 0, len(rows))
	for i := range rows {
		ings, err := s.cocktails.IngredientsFor(ctx, rows[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, rows[i].View(ings, callerID))
	}
	return views, nil
}

// Get fetches one cocktail and enforces visibility.
func (s *CocktailService) Get(ctx context.Context, id, callerID int) (*models.CocktailView, error) {
	c, err := s.cocktails.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if !canView(c, callerID) {
		return nil, ErrForbidden
	}
	return s.buildView(ctx, c, callerID)
}

// Create validates the payload and inserts a new cocktail owned by callerID.
func (s *CocktailService) Create(ctx context.Context, callerID int, p CocktailParams) (*models.CocktailView, error) {
	row, ingredients, err := normalizeParams(p)
	if err != nil {
		return nil, err
	}
	row.UserID = callerID

	id, err := s.cocktails.Create(ctx, row, ingredients)
	if err != nil {
		return nil, err
	}

	created, err := s.cocktails.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("cocktail %d vanished after insert", id)
	}
	return s.buildView(ctx, created, callerID)
}

// Update replaces the cocktail's scalar fields and its entire ingredient
// set. Only the owner may update; the replace is atomic in the repository.
func (s *CocktailService) Update(ctx context.Context, id, callerID int, p CocktailParams) (*models.CocktailView, error) {
	existing, err := s.cocktails.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if !canMutate(existing, callerID) {
		return nil, ErrForbidden
	}

	row, ingredients, err := normalizeParams(p)
	if err != nil {
		return nil, err
	}
	row.ID = id
	row.UserID = existing.UserID

	if err := s.cocktails.Update(ctx, row, ingredients); err != nil {
		return nil, err
	}

	updated, err := s.cocktails.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return s.buildView(ctx, updated, callerID)
}

// Delete removes the cocktail and, with it, its ingredients. Owner only.
func (s *CocktailService) Delete(ctx context.Context, id, callerID int) error {
	existing, err := s.cocktails.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	if !canMutate(existing, callerID) {
		return ErrForbidden
	}
	return s.cocktails.Delete(ctx, id)
}

func (s *CocktailService) buildView(ctx context.Context, c *models.Cocktail, callerID int) (*models.CocktailView, error) {
	ings, err := s.cocktails.IngredientsFor(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	v := c.View(ings, callerID)
	return &v, nil
}

// normalizeParams trims all submitted fields and validates them: the name
// is required, and every ingredient must carry both a name and a quantity
// after trimming — a half-filled pair is a caller error, not data to drop.
func normalizeParams(p CocktailParams) (models.Cocktail, []models.Ingredient, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.Cocktail{}, nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	ingredients := make([]models.Ingredient, 0, len(p.Ingredients))
	for i, ing := range p.Ingredients {
		n := strings.TrimSpace(ing.Name)
		q := strings.TrimSpace(ing.Quantity)
		if n == "" || q == "" {
			return models.Cocktail{}, nil, fmt.Errorf(
				"%w: ingredient %d requires both name and quantity", ErrValidation, i+1)
		}
		ingredients = append(ingredients, models.Ingredient{Name: n, Quantity: q})
	}

	return models.Cocktail{
		Name:        name,
		Description: strings.TrimSpace(p.Description),
		ImageURL:    strings.TrimSpace(p.ImageURL),
		IsPublic:    p.IsPublic,
	}, ingredients, nil
}

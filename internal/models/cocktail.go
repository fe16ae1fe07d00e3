package models

import "time"

// Cocktail is the stored recipe row. OwnerName is populated by the
// list/get JOIN against users and never serialized directly; responses
// go through CocktailView.
type Cocktail struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsPublic    bool      `json:"is_public"`
	UserID      int       `json:"user_id"`
	OwnerName   string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Ingredient is a (name, quantity) pair owned by exactly one cocktail.
type Ingredient struct {
	ID         int    `json:"id"`
	CocktailID int    `json:"cocktail_id"`
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
}

// CocktailView is the response DTO: the row plus its ingredient set, a
// caller-relative isOwner flag, and the owner as a nested object in place
// of the raw user_id/user_name columns.
type CocktailView struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	IsPublic    bool         `json:"is_public"`
	Ingredients []Ingredient `json:"ingredients"`
	IsOwner     bool         `json:"isOwner"`
	User        UserView     `json:"user"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// View shapes the row for a given caller (0 means anonymous).
func (c *Cocktail) View(ingredients []Ingredient, callerID int) CocktailView {
	if ingredients == nil {
		ingredients = []Ingredient{}
	}
	return CocktailView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		IsPublic:    c.IsPublic,
		Ingredients: ingredients,
		IsOwner:     callerID != 0 && callerID == c.UserID,
		User:        UserView{ID: c.UserID, Name: c.OwnerName},
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

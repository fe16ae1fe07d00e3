package service

// IngredientParams is one submitted (name, quantity) pair.
type IngredientParams struct {
	Name     string
	Quantity string
}

// CocktailParams carries the writable fields of a create/update request.
// On update the ingredient set fully replaces the stored one.
type CocktailParams struct {
	Name        string
	Description string
	ImageURL    string
	IsPublic    bool
	Ingredients []IngredientParams
}

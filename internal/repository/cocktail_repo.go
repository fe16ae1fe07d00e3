package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cocktail-odyssey/internal/models"
)

type CocktailRepository struct {
	db *sql.DB
}

func NewCocktailRepository(db *sql.DB) *CocktailRepository {
	return &CocktailRepository{db: db}
}

var _ Cocktails = (*CocktailRepository)(nil)

const (
	selectCocktailColumns = `c.id, c.name, c.description, c.image_url, c.is_public, c.user_id, u.name, c.created_at, c.updated_at`

	selectCocktailByIDSQL = `SELECT ` + selectCocktailColumns + `
		FROM cocktails c JOIN users u ON c.user_id = u.id
		WHERE c.id = ?`

	selectIngredientsSQL = `SELECT id, cocktail_id, name, quantity FROM ingredients WHERE cocktail_id = ?`

	insertCocktailSQL = `INSERT INTO cocktails (name, description, image_url, is_public, user_id)
		VALUES (?, ?, ?, ?, ?)`

	updateCocktailSQL = `UPDATE cocktails
		SET name = ?, description = ?, image_url = ?, is_public = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	insertIngredientSQL = `INSERT INTO ingredients (cocktail_id, name, quantity) VALUES (?, ?, ?)`

	deleteIngredientsSQL = `DELETE FROM ingredients WHERE cocktail_id = ?`
	deleteCocktailSQL    = `DELETE FROM cocktails WHERE id = ?`
)

// List returns cocktails visible to callerID (0 = anonymous), newest first.
// With mineOnly it returns only the caller's rows; callers must not pass
// mineOnly with callerID == 0.
func (r *CocktailRepository) List(ctx context.Context, callerID int, mineOnly bool) ([]models.Cocktail, error) {
	q := `SELECT ` + selectCocktailColumns + `
		FROM cocktails c JOIN users u ON c.user_id = u.id`
	var args []any

	switch {
	case mineOnly:
		q += ` WHERE c.user_id = ?`
		args = append(args, callerID)
	case callerID != 0:
		q += ` WHERE c.is_public = 1 OR c.user_id = ?`
		args = append(args, callerID)
	default:
		q += ` WHERE c.is_public = 1`
	}
	q += ` ORDER BY c.created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list cocktails: %w", err)
	}
	defer rows.Close()

	out := make([]models.Cocktail, 0, 16)
	for rows.Next() {
		var c models.Cocktail
		var desc, imageURL sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc, &imageURL, &c.IsPublic, &c.UserID, &c.OwnerName, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cocktail row: %w", err)
		}
		c.Description = desc.String
		c.ImageURL = imageURL.String
		c.CreatedAt = c.CreatedAt.UTC()
		c.UpdatedAt = c.UpdatedAt.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cocktails: %w", err)
	}
	return out, nil
}

// GetByID fetches a cocktail with its owner's name. Returns (nil, nil) if not found.
func (r *CocktailRepository) GetByID(ctx context.Context, id int) (*models.Cocktail, error) {
	var c models.Cocktail
	var desc, imageURL sql.NullString
	err := r.db.QueryRowContext(ctx, selectCocktailByIDSQL, id).
		Scan(&c.ID, &c.Name, &desc, &imageURL, &c.IsPublic, &c.UserID, &c.OwnerName, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cocktail %d: %w", id, err)
	}
	c.Description = desc.String
	c.ImageURL = imageURL.String
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

// IngredientsFor returns the ingredient set of one cocktail, in storage order.
func (r *CocktailRepository) IngredientsFor(ctx context.Context, cocktailID int) ([]models.Ingredient, error) {
	rows, err := r.db.QueryContext(ctx, selectIngredientsSQL, cocktailID)
	if err != nil {
		return nil, fmt.Errorf("select ingredients for cocktail %d: %w", cocktailID, err)
	}
	defer rows.Close()

	out := make([]models.Ingredient, 0, 8)
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.CocktailID, &ing.Name, &ing.Quantity); err != nil {
			return nil, fmt.Errorf("scan ingredient row: %w", err)
		}
		out = append(out, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select ingredients for cocktail %d: %w", cocktailID, err)
	}
	return out, nil
}

// Create inserts the cocktail row and its ingredients in one transaction
// and returns the generated id.
func (r *CocktailRepository) Create(ctx context.Context, c models.Cocktail, ingredients []models.Ingredient) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create cocktail: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertCocktailSQL,
		c.Name, nullable(c.Description), nullable(c.ImageURL), c.IsPublic, c.UserID)
	if err != nil {
		return 0, fmt.Errorf("insert cocktail %q: %w", c.Name, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for cocktail %q: %w", c.Name, err)
	}
	id := int(lastID)

	if err := insertIngredients(ctx, tx, id, ingredients); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create cocktail: %w", err)
	}
	return id, nil
}

// Update replaces the cocktail's scalar fields and its full ingredient set
// in one transaction. Concurrent readers observe either the old set or the
// new set, never a partial one.
func (r *CocktailRepository) Update(ctx context.Context, c models.Cocktail, ingredients []models.Ingredient) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update cocktail %d: %w", c.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, updateCocktailSQL,
		c.Name, nullable(c.Description), nullable(c.ImageURL), c.IsPublic, c.ID); err != nil {
		return fmt.Errorf("update cocktail %d: %w", c.ID, err)
	}

	if _, err := tx.ExecContext(ctx, deleteIngredientsSQL, c.ID); err != nil {
		return fmt.Errorf("clear ingredients for cocktail %d: %w", c.ID, err)
	}
	if err := insertIngredients(ctx, tx, c.ID, ingredients); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update cocktail %d: %w", c.ID, err)
	}
	return nil
}

// Delete removes the cocktail and its ingredients. The ingredient delete is
// explicit even though the schema cascades, so the end state does not depend
// on foreign_keys enforcement.
func (r *CocktailRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete cocktail %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteIngredientsSQL, id); err != nil {
		return fmt.Errorf("delete ingredients for cocktail %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, deleteCocktailSQL, id); err != nil {
		return fmt.Errorf("delete cocktail %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete cocktail %d: %w", id, err)
	}
	return nil
}

func insertIngredients(ctx context.Context, tx *sql.Tx, cocktailID int, ingredients []models.Ingredient) error {
	for _, ing := range ingredients {
		if _, err := tx.ExecContext(ctx, insertIngredientSQL, cocktailID, ing.Name, ing.Quantity); err != nil {
			return fmt.Errorf("insert ingredient %q for cocktail %d: %w", ing.Name, cocktailID, err)
		}
	}
	return nil
}

// nullable maps "" to NULL for optional text columns.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

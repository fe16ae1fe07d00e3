package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"cocktail-odyssey/internal/models"
)

// fakeCocktailsRepo is an in-memory stand-in for repository.Cocktails with
// the same visibility filter as the SQL implementation.
type fakeCocktailsRepo struct {
	rows        map[int]models.Cocktail
	ingredients map[int][]models.Ingredient
	nextID      int

	listErr error
	getErr  error
}

func newFakeCocktailsRepo() *fakeCocktailsRepo {
	return &fakeCocktailsRepo{
		rows:        map[int]models.Cocktail{},
		ingredients: map[int][]models.Ingredient{},
		nextID:      1,
	}
}

func (f *fakeCocktailsRepo) add(c models.Cocktail, ings []models.Ingredient) int {
	id := f.nextID
	f.nextID++
	c.ID = id
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	f.rows[id] = c
	f.setIngredients(id, ings)
	return id
}

func (f *fakeCocktailsRepo) setIngredients(cocktailID int, ings []models.Ingredient) {
	stored := make([]models.Ingredient, 0, len(ings))
	for i, ing := range ings {
		ing.ID = i + 1
		ing.CocktailID = cocktailID
		stored = append(stored, ing)
	}
	f.ingredients[cocktailID] = stored
}

func (f *fakeCocktailsRepo) List(_ context.Context, callerID int, mineOnly bool) ([]models.Cocktail, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Cocktail, 0, len(f.rows))
	for _, c := range f.rows {
		switch {
		case mineOnly:
			if c.UserID == callerID {
				out = append(out, c)
			}
		case c.IsPublic || (callerID != 0 && c.UserID == callerID):
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCocktailsRepo) GetByID(_ context.Context, id int) (*models.Cocktail, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCocktailsRepo) IngredientsFor(_ context.Context, cocktailID int) ([]models.Ingredient, error) {
	return f.ingredients[cocktailID], nil
}

func (f *fakeCocktailsRepo) Create(_ context.Context, c models.Cocktail, ings []models.Ingredient) (int, error) {
	return f.add(c, ings), nil
}

func (f *fakeCocktailsRepo) Update(_ context.Context, c models.Cocktail, ings []models.Ingredient) error {
	existing, ok := f.rows[c.ID]
	if !ok {
		return errors.New("row disappeared")
	}
	existing.Name = c.Name
	existing.Description = c.Description
	existing.ImageURL = c.ImageURL
	existing.IsPublic = c.IsPublic
	existing.UpdatedAt = time.Now().UTC()
	f.rows[c.ID] = existing
	f.setIngredients(c.ID, ings)
	return nil
}

func (f *fakeCocktailsRepo) Delete(_ context.Context, id int) error {
	delete(f.rows, id)
	delete(f.ingredients, id)
	return nil
}

// --- policy ---

func TestCanView(t *testing.T) {
	public := &models.Cocktail{ID: 1, IsPublic: true, UserID: 5}
	private := &models.Cocktail{ID: 2, IsPublic: false, UserID: 5}

	cases := []struct {
		name     string
		cocktail *models.Cocktail
		callerID int
		want     bool
	}{
		{"public visible to anonymous", public, 0, true},
		{"public visible to stranger", public, 9, true},
		{"public visible to owner", public, 5, true},
		{"private hidden from anonymous", private, 0, false},
		{"private hidden from stranger", private, 9, false},
		{"private visible to owner", private, 5, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := canView(tc.cocktail, tc.callerID); got != tc.want {
				t.Fatalf("canView=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanMutate_OwnerOnly(t *testing.T) {
	c := &models.Cocktail{ID: 1, IsPublic: true, UserID: 5}

	if canMutate(c, 0) {
		t.Fatal("anonymous must not mutate")
	}
	if canMutate(c, 9) {
		t.Fatal("non-owner must not mutate, even on public rows")
	}
	if !canMutate(c, 5) {
		t.Fatal("owner must be allowed to mutate")
	}
}

// --- List ---

func TestCocktailService_List_AnonymousGetsExactlyPublicSubset(t *testing.T) {
	repo := newFakeCocktailsRepo()
	repo.add(models.Cocktail{Name: "Mojito", IsPublic: true, UserID: 1, OwnerName: "Alice"}, nil)
	repo.add(models.Cocktail{Name: "Secret Punch", IsPublic: false, UserID: 1, OwnerName: "Alice"}, nil)
	repo.add(models.Cocktail{Name: "Negroni", IsPublic: true, UserID: 2, OwnerName: "Bob"}, nil)
	svc := NewCocktailService(repo)

	views, err := svc.List(context.Background(), 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 public cocktails, got %d", len(views))
	}
	for _, v := range views {
		if !v.IsPublic {
			t.Fatalf("anonymous listing leaked private cocktail %q", v.Name)
		}
		if v.IsOwner {
			t.Fatalf("anonymous caller cannot own %q", v.Name)
		}
	}
}

func TestCocktailService_List_OwnerSeesOwnPrivateWithIsOwner(t *testing.T) {
	repo := newFakeCocktailsRepo()
	repo.add(models.Cocktail{Name: "Secret Punch", IsPublic: false, UserID: 1, OwnerName: "Alice"}, nil)
	repo.add(models.Cocktail{Name: "Negroni", IsPublic: true, UserID: 2, OwnerName: "Bob"}, nil)
	svc := NewCocktailService(repo)

	views, err := svc.List(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected own private + public, got %d views", len(views))
	}
	for _, v := range views {
		switch v.Name {
		case "Secret Punch":
			if !v.IsOwner {
				t.Fatal("owner flag missing on own cocktail")
			}
			if v.User.ID != 1 || v.User.Name != "Alice" {
				t.Fatalf("unexpected owner object: %+v", v.User)
			}
		case "Negroni":
			if v.IsOwner {
				t.Fatal("isOwner set on someone else's cocktail")
			}
		}
	}
}

func TestCocktailService_List_MineOnly(t *testing.T) {
	repo := newFakeCocktailsRepo()
	repo.add(models.Cocktail{Name: "Secret Punch", IsPublic: false, UserID: 1}, nil)
	repo.add(models.Cocktail{Name: "Negroni", IsPublic: true, UserID: 2}, nil)
	svc := NewCocktailService(repo)

	views, err := svc.List(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 || views[0].Name != "Secret Punch" {
		t.Fatalf("mine=true should return only owned rows, got %+v", views)
	}
}

func TestCocktailService_List_MineWithoutCallerFallsBackToPublic(t *testing.T) {
	repo := newFakeCocktailsRepo()
	repo.add(models.Cocktail{Name: "Secret Punch", IsPublic: false, UserID: 1}, nil)
	repo.add(models.Cocktail{Name: "Negroni", IsPublic: true, UserID: 2}, nil)
	svc := NewCocktailService(repo)

	views, err := svc.List(context.Background(), 0, true)
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if len(views) != 1 || views[0].Name != "Negroni" {
		t.Fatalf("anonymous mine=true should equal the public listing, got %+v", views)
	}
}

// --- Get ---

func TestCocktailService_Get(t *testing.T) {
	repo := newFakeCocktailsRepo()
	id := repo.add(models.Cocktail{Name: "Secret Punch", IsPublic: false, UserID: 1, OwnerName: "Alice"},
		[]models.Ingredient{{Name: "rum", Quantity: "50ml"}})
	svc := NewCocktailService(repo)
	ctx := context.Background()

	if _, err := svc.Get(ctx, 999, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, id, 0); !errors.Is(err, ErrForbidden) {
		t.Fatalf("anonymous get of private row: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, id, 9); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger get of private row: expected ErrForbidden, got %v", err)
	}

	v, err := svc.Get(ctx, id, 1)
	if err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	if !v.IsOwner || len(v.Ingredients) != 1 || v.Ingredients[0].Name != "rum" {
		t.Fatalf("unexpected view: %+v", v)
	}
}

// --- Create ---

func TestCocktailService_Create_RoundTripsIngredients(t *testing.T) {
	repo := newFakeCocktailsRepo()
	svc := NewCocktailService(repo)

	v, err := svc.Create(context.Background(), 5, CocktailParams{
		Name:     "  Mojito  ",
		IsPublic: true,
		Ingredients: []IngredientParams{
			{Name: " rum ", Quantity: " 50ml "},
			{Name: "mint", Quantity: "10 leaves"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Name != "Mojito" {
		t.Fatalf("name not trimmed: %q", v.Name)
	}
	if !v.IsOwner || v.User.ID != 5 {
		t.Fatalf("creator must own the new cocktail: %+v", v)
	}
	if len(v.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients back, got %d", len(v.Ingredients))
	}
	got := map[string]string{}
	for _, ing := range v.Ingredients {
		got[ing.Name] = ing.Quantity
	}
	if got["rum"] != "50ml" || got["mint"] != "10 leaves" {
		t.Fatalf("ingredient pairs do not round-trip: %+v", got)
	}
}

func TestCocktailService_Create_Validation(t *testing.T) {
	svc := NewCocktailService(newFakeCocktailsRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, 5, CocktailParams{Name: "   "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name: expected ErrValidation, got %v", err)
	}

	_, err := svc.Create(ctx, 5, CocktailParams{
		Name:        "Mojito",
		Ingredients: []IngredientParams{{Name: "rum", Quantity: "  "}},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("half-filled ingredient: expected ErrValidation, got %v", err)
	}
}

// --- Update ---

func TestCocktailService_Update_ReplacesIngredientSet(t *testing.T) {
	repo := newFakeCocktailsRepo()
	id := repo.add(models.Cocktail{Name: "Mojito", IsPublic: true, UserID: 5},
		[]models.Ingredient{
			{Name: "rum", Quantity: "50ml"},
			{Name: "mint", Quantity: "10 leaves"},
			{Name: "lime", Quantity: "1"},
		})
	svc := NewCocktailService(repo)

	v, err := svc.Update(context.Background(), id, 5, CocktailParams{
		Name:        "Mojito 2.0",
		IsPublic:    false,
		Ingredients: []IngredientParams{{Name: "rum", Quantity: "60ml"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Name != "Mojito 2.0" || v.IsPublic {
		t.Fatalf("scalar fields not replaced: %+v", v)
	}
	if len(v.Ingredients) != 1 || v.Ingredients[0].Quantity != "60ml" {
		t.Fatalf("ingredient set not fully replaced: %+v", v.Ingredients)
	}
}

func TestCocktailService_Update_DeniedLeavesRecordUnchanged(t *testing.T) {
	repo := newFakeCocktailsRepo()
	id := repo.add(models.Cocktail{Name: "Mojito", IsPublic: true, UserID: 5},
		[]models.Ingredient{{Name: "rum", Quantity: "50ml"}})
	svc := NewCocktailService(repo)
	ctx := context.Background()

	for _, caller := range []int{0, 9} {
		_, err := svc.Update(ctx, id, caller, CocktailParams{Name: "Hijacked"})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("caller %d: expected ErrForbidden, got %v", caller, err)
		}
	}

	stored := repo.rows[id]
	if stored.Name != "Mojito" {
		t.Fatalf("denied update must not change the row, got %+v", stored)
	}
	if len(repo.ingredients[id]) != 1 {
		t.Fatalf("denied update must not touch ingredients")
	}
}

func TestCocktailService_Update_NotFound(t *testing.T) {
	svc := NewCocktailService(newFakeCocktailsRepo())
	if _, err := svc.Update(context.Background(), 404, 5, CocktailParams{Name: "X"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// --- Delete ---

func TestCocktailService_Delete(t *testing.T) {
	repo := newFakeCocktailsRepo()
	id := repo.add(models.Cocktail{Name: "Mojito", IsPublic: true, UserID: 5},
		[]models.Ingredient{{Name: "rum", Quantity: "50ml"}})
	svc := NewCocktailService(repo)
	ctx := context.Background()

	if err := svc.Delete(ctx, id, 9); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, 404, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing row: expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, id, 5); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, ok := repo.rows[id]; ok {
		t.Fatal("row still present after delete")
	}
	if ings := repo.ingredients[id]; len(ings) != 0 {
		t.Fatalf("ingredients survived the delete: %+v", ings)
	}
}

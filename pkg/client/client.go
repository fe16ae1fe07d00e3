// Package client is a Go client for the Cocktail Odyssey API. It mirrors the
// browser front end's request/response contract: it holds a locally
// persisted credential and attaches it as a bearer token when present.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cocktail-odyssey/internal/models"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx answer decoded from the server's {message} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Ingredient is one submitted (name, quantity) pair.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// CocktailPayload is the body of create/update requests.
type CocktailPayload struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	IsPublic    *bool        `json:"isPublic,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
}

type Client struct {
	baseURL string
	http    *http.Client
	store   *CredentialStore
}

// New builds a client against baseURL persisting credentials in store.
func New(baseURL string, store *CredentialStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
	}
}

// Register creates an account and persists the returned token and profile.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.UserView, error) {
	return c.authenticate(ctx, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

// Login signs in and persists the returned token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (models.UserView, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Logout drops the persisted credential.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// CurrentUser returns the locally persisted profile, if signed in.
func (c *Client) CurrentUser() (models.UserView, bool) {
	return c.store.User()
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (models.UserView, error) {
	var out struct {
		Token string          `json:"token"`
		User  models.UserView `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return models.UserView{}, err
	}
	if err := c.store.SetCredentials(out.Token, out.User); err != nil {
		return models.UserView{}, err
	}
	return out.User, nil
}

// ListCocktails fetches the visible listing; mine restricts it to the
// caller's own rows when signed in.
func (c *Client) ListCocktails(ctx context.Context, mine bool) ([]models.CocktailView, error) {
	path := "/cocktails"
	if mine {
		path += "?mine=true"
	}
	var out struct {
		Cocktails []models.CocktailView `json:"cocktails"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Cocktails, nil
}

// GetCocktail fetches one cocktail by id.
func (c *Client) GetCocktail(ctx context.Context, id int) (*models.CocktailView, error) {
	var out struct {
		Cocktail models.CocktailView `json:"cocktail"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/cocktails/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Cocktail, nil
}

// CreateCocktail submits a new recipe.
func (c *Client) CreateCocktail(ctx context.Context, p CocktailPayload) (*models.CocktailView, error) {
	var out struct {
		Cocktail models.CocktailView `json:"cocktail"`
	}
	if err := c.do(ctx, http.MethodPost, "/cocktails", p, &out); err != nil {
		return nil, err
	}
	return &out.Cocktail, nil
}

// UpdateCocktail fully replaces a recipe, ingredient set included.
func (c *Client) UpdateCocktail(ctx context.Context, id int, p CocktailPayload) (*models.CocktailView, error) {
	var out struct {
		Cocktail models.CocktailView `json:"cocktail"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cocktails/%d", id), p, &out); err != nil {
		return nil, err
	}
	return &out.Cocktail, nil
}

// DeleteCocktail removes a recipe and returns the server's confirmation.
func (c *Client) DeleteCocktail(ctx context.Context, id int) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cocktails/%d", id), nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.store.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response of %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var decoded struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &decoded) == nil && decoded.Message != "" {
			apiErr.Message = decoded.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", method, path, err)
	}
	return nil
}

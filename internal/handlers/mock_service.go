package handlers

import (
	"context"
	"net/http"

	"cocktail-odyssey/internal/models"
	"cocktail-odyssey/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerToken string
	registerUser  models.UserView
	registerErr   error
	loginToken    string
	loginUser     models.UserView
	loginErr      error
	parseID       int
	parseErr      error

	lastRegisterName  string
	lastRegisterEmail string
	lastLoginEmail    string
	lastLoginPassword string
	lastParseToken    string
}

func (m *mockAuth) Register(_ context.Context, name, email, password string) (string, models.UserView, error) {
	m.lastRegisterName = name
	m.lastRegisterEmail = email
	return m.registerToken, m.registerUser, m.registerErr
}

func (m *mockAuth) Login(_ context.Context, email, password string) (string, models.UserView, error) {
	m.lastLoginEmail = email
	m.lastLoginPassword = password
	return m.loginToken, m.loginUser, m.loginErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockCocktails struct {
	listResp  []models.CocktailView
	listErr   error
	getResp   *models.CocktailView
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	lastListCaller int
	lastListMine   bool
	lastGetID      int
	lastGetCaller  int
	lastCaller     int
	lastID         int
	lastParams     service.CocktailParams
	deleteCalls    int
}

func (m *mockCocktails) List(_ context.Context, callerID int, mineOnly bool) ([]models.CocktailView, error) {
	m.lastListCaller = callerID
	m.lastListMine = mineOnly
	return m.listResp, m.listErr
}

func (m *mockCocktails) Get(_ context.Context, id, callerID int) (*models.CocktailView, error) {
	m.lastGetID = id
	m.lastGetCaller = callerID
	return m.getResp, m.getErr
}

func (m *mockCocktails) Create(_ context.Context, callerID int, p service.CocktailParams) (*models.CocktailView, error) {
	m.lastCaller = callerID
	m.lastParams = p
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.getResp, nil
}

func (m *mockCocktails) Update(_ context.Context, id, callerID int, p service.CocktailParams) (*models.CocktailView, error) {
	m.lastID = id
	m.lastCaller = callerID
	m.lastParams = p
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.getResp, nil
}

func (m *mockCocktails) Delete(_ context.Context, id, callerID int) error {
	m.deleteCalls++
	m.lastID = id
	m.lastCaller = callerID
	return m.deleteErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

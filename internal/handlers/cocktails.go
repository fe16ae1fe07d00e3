package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"cocktail-odyssey/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK        = "ok"
	msgServerError  = "Server error"
	msgNotFound     = "Cocktail not found"
	msgAccessDenied = "Access denied"
	msgDeleted      = "Cocktail deleted successfully"
	msgInvalidID    = "invalid cocktail id"
)

// serverError logs the underlying cause and answers with a generic message
// so storage details never leak to the client.
func (h *Handler) serverError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(requestIDKey)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": msgServerError})
}

// respondCocktailError maps the domain errors to HTTP codes; anything
// unrecognized is a storage-level failure.
func (h *Handler) respondCocktailError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": msgAccessDenied})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.serverError(c, logKey, err, kv...)
	}
}

// idParam parses the :id path segment; writes a 400 and returns false on garbage.
func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidID})
		return 0, false
	}
	return id, true
}

// Request DTO shared by create and update. IsPublic is a pointer so an
// omitted flag defaults to public.
type ingredientRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type cocktailRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	ImageURL    string              `json:"imageUrl"`
	IsPublic    *bool               `json:"isPublic"`
	Ingredients []ingredientRequest `json:"ingredients"`
}

func (r *cocktailRequest) toParams() service.CocktailParams {
	isPublic := true
	if r.IsPublic != nil {
		isPublic = *r.IsPublic
	}
	ingredients := make([]service.IngredientParams, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, service.IngredientParams{
			Name:     ing.Name,
			Quantity: ing.Quantity,
		})
	}
	return service.CocktailParams{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		IsPublic:    isPublic,
		Ingredients: ingredients,
	}
}

// @Summary      API banner
// @Tags         system
// @Produce      plain
// @Success      200  {string}  string
// @Router       / [get]
func (h *Handler) root(c *gin.Context) {
	c.String(http.StatusOK, "Cocktail Odyssey API is running")
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

// @Summary      List cocktails
// @Description  Public cocktails plus the caller's own. ?mine=true restricts to owned rows when authenticated; anonymous callers get the public listing.
// @Tags         cocktails
// @Produce      json
// @Param        mine  query  bool  false  "Only the caller's cocktails"
// @Success      200  {object}  map[string]interface{}  "cocktails"
// @Failure      500  {object}  map[string]string
// @Router       /cocktails [get]
// @Security     BearerAuth
func (h *Handler) listCocktails(c *gin.Context) {
	caller := callerID(c)
	mineOnly := c.Query("mine") == "true"
	if mineOnly && caller == 0 && h.log != nil {
		// Preserved fallback: an unauthenticated ?mine=true behaves as the
		// public listing. Logged so a misbehaving client stays observable.
		h.log.Debugw("mine=true without caller identity, serving public listing",
			"request_id", c.GetString(requestIDKey))
	}

	views, err := h.services.Cocktails.List(c.Request.Context(), caller, mineOnly)
	if err != nil {
		h.serverError(c, "cocktails_list_failed", err, "mine", mineOnly)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktails": views})
}

// @Summary      Get one cocktail
// @Tags         cocktails
// @Produce      json
// @Param        id  path  int  true  "Cocktail id"
// @Success      200  {object}  map[string]interface{}  "cocktail"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /cocktails/{id} [get]
// @Security     BearerAuth
func (h *Handler) getCocktail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	view, err := h.services.Cocktails.Get(c.Request.Context(), id, callerID(c))
	if err != nil {
		h.respondCocktailError(c, "cocktail_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktail": view})
}

// @Summary      Create a cocktail
// @Tags         cocktails
// @Accept       json
// @Produce      json
// @Param        body  body  cocktailRequest  true  "Cocktail payload"
// @Success      201  {object}  map[string]interface{}  "cocktail"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /cocktails [post]
// @Security     BearerAuth
func (h *Handler) createCocktail(c *gin.Context) {
	var input cocktailRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	view, err := h.services.Cocktails.Create(c.Request.Context(), callerID(c), input.toParams())
	if err != nil {
		h.respondCocktailError(c, "cocktail_create_failed", err, "name", input.Name)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cocktail": view})
}

// @Summary      Update a cocktail
// @Description  Full replace: scalar fields and the entire ingredient set are rewritten.
// @Tags         cocktails
// @Accept       json
// @Produce      json
// @Param        id    path  int              true  "Cocktail id"
// @Param        body  body  cocktailRequest  true  "Cocktail payload"
// @Success      200  {object}  map[string]interface{}  "cocktail"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /cocktails/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateCocktail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input cocktailRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	view, err := h.services.Cocktails.Update(c.Request.Context(), id, callerID(c), input.toParams())
	if err != nil {
		h.respondCocktailError(c, "cocktail_update_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cocktail": view})
}

// @Summary      Delete a cocktail
// @Tags         cocktails
// @Produce      json
// @Param        id  path  int  true  "Cocktail id"
// @Success      200  {object}  map[string]string  "message"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /cocktails/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteCocktail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Cocktails.Delete(c.Request.Context(), id, callerID(c)); err != nil {
		h.respondCocktailError(c, "cocktail_delete_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
}

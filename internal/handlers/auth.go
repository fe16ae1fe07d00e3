package handlers

import (
	"errors"
	"net/http"

	"cocktail-odyssey/internal/service"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled, true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "err", err, "path", c.FullPath())
		}
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return false
	}
	return true
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  registerRequest  true  "Account payload"
// @Success      201  {object}  map[string]interface{}  "token, user"
// @Failure      400  {object}  map[string]string
// @Router       /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input registerRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, user, err := h.services.Register(c.Request.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
		default:
			h.serverError(c, "register_failed", err, "email", input.Email)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  loginRequest  true  "Credentials"
// @Success      200  {object}  map[string]interface{}  "token, user"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, user, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Deliberately does not say which field was wrong.
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		h.serverError(c, "login_failed", err, "email", input.Email)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

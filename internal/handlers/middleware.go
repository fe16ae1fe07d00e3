package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID    = "userId"
	requestIDKey = "X-Request-ID"
)

// requestID tags every request with an id for log correlation, honoring a
// client-provided header.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDKey)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Header(requestIDKey, id)
	c.Next()
}

// bearerToken extracts the token from an "Authorization: Bearer <t>" header.
// Returns ("", false) when the header is absent, and ("", true) when it is
// present but malformed.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", true
	}
	return parts[1], true
}

// authRequired guards write operations: a missing or invalid credential
// rejects the request before any handler logic runs.
func (h *Handler) authRequired(c *gin.Context) {
	token, present := bearerToken(c)
	if !present {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "missing Authorization header",
		})
		return
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "invalid Authorization header format",
		})
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "invalid or expired token",
		})
		return
	}

	c.Set(ctxUserID, userID)
	c.Next()
}

// authOptional resolves the caller on read operations without ever failing
// the request: no header means anonymous, and a bad token is logged and
// degrades to anonymous so public data is still served.
func (h *Handler) authOptional(c *gin.Context) {
	token, present := bearerToken(c)
	if !present || token == "" {
		c.Next()
		return
	}

	userID, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("invalid token on read, serving public data",
				"err", err, "request_id", c.GetString(requestIDKey))
		}
		c.Next()
		return
	}

	c.Set(ctxUserID, userID)
	c.Next()
}

// callerID returns the resolved user id, 0 when anonymous.
func callerID(c *gin.Context) int {
	return c.GetInt(ctxUserID)
}

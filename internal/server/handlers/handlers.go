// Package handlers adapts the service layer to Gin. Every handler follows the
// same shape: resolve the caller identity, bind the payload, delegate to a
// service and translate the error kind into an HTTP status.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osvalr/cantina/internal/domain/apperr"
	"github.com/osvalr/cantina/internal/domain/models"
)

// IdentityContextKey is where the auth middleware stores the resolved caller
// identity on the Gin context.
const IdentityContextKey = "identity"

func identity(c *gin.Context) models.Identity {
	value, ok := c.Get(IdentityContextKey)
	if !ok {
		return models.Identity{}
	}
	id, _ := value.(models.Identity)
	return id
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error as {"error": msg}. Internal details are not
// leaked: unknown kinds get a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := apperr.Message(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

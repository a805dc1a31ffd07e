package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ownerIDKey is the key used to store the authenticated register owner in the
// request context.
const ownerIDKey = contextKey("ownerID")

// WithOwnerID returns a copy of ctx carrying the owner id.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// GetOwnerIDFromContext retrieves the authenticated owner ID from the Gin context.
// It returns the owner ID and a boolean indicating if it was found.
func GetOwnerIDFromContext(c *gin.Context) (string, bool) {
	if ownerIDVal, exists := c.Get(string(ownerIDKey)); exists {
		ownerID, ok := ownerIDVal.(string)
		return ownerID, ok && ownerID != ""
	}
	// check in the request context as well
	ownerID, ok := c.Request.Context().Value(ownerIDKey).(string)
	if !ok || ownerID == "" {
		return "", false
	}
	return ownerID, true
}

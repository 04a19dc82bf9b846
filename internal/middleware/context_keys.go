package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey  = contextKey("userID")
	tokenIDKey = contextKey("tokenID")
	tokenKey   = contextKey("token")
)

// WithUserID returns a copy of ctx carrying the authenticated user's id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromCtx retrieves the authenticated user id from a standard context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return GetUserIDFromCtx(c.Request.Context())
}

// GetTokenFromCtx returns the raw bearer token and its id, as accepted by AuthMiddleware.
func GetTokenFromCtx(ctx context.Context) (token string, tokenID string, ok bool) {
	token, _ = ctx.Value(tokenKey).(string)
	tokenID, _ = ctx.Value(tokenIDKey).(string)
	return token, tokenID, token != ""
}

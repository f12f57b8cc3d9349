package middleware

import (
	"travelbooking/internal/domain"

	"github.com/gin-gonic/gin"
)

// Caller builds the explicit caller context passed into services. An
// unauthenticated request yields a zero UserID and empty Role.
func Caller(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		UserID:    domain.ID(c.GetInt64(userIDKey)),
		Role:      c.GetString(userRoleKey),
		RequestID: GetRequestID(c),
	}
}

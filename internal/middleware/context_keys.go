package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	companyIDKey = contextKey("companyID")
	actorKey     = contextKey("actor")
)

// companyIDHeader carries the caller's company scope. Every domain route is
// company-scoped; requests without it are rejected up front.
const companyIDHeader = "X-Company-ID"

// actorHeader identifies who performs the change, recorded in audit fields.
const actorHeader = "X-Actor"

// CompanyContextMiddleware extracts the company scope and acting user from
// request headers and stores them in the Gin context.
func CompanyContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetHeader(companyIDHeader)
		if companyID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": companyIDHeader + " header required"})
			return
		}
		c.Set(string(companyIDKey), companyID)

		if actor := c.GetHeader(actorHeader); actor != "" {
			c.Set(string(actorKey), actor)
		}

		c.Next()
	}
}

// GetCompanyIDFromContext retrieves the company scope set by
// CompanyContextMiddleware.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(companyIDKey))
	if !exists {
		return "", false
	}
	companyID, ok := val.(string)
	return companyID, ok
}

// GetActorFromContext retrieves the acting user, defaulting to "system" when
// the header was absent.
func GetActorFromContext(c *gin.Context) string {
	val, exists := c.Get(string(actorKey))
	if !exists {
		return "system"
	}
	actor, ok := val.(string)
	if !ok || actor == "" {
		return "system"
	}
	return actor
}

package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

// AuthMiddleware validates the bearer token and loads the caller's org and
// user identity into the request context. Requests without a token pass
// through; handlers that need an identity fail with unauthorized downstream.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), auth)
		ctx = utils.SetOrgIdInContext(ctx, claim.OrgId)
		ctx = utils.SetUserIdInContext(ctx, claim.ID)
		ctx = utils.SetUserNameInContext(ctx, claim.UserName)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

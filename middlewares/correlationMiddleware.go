package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/markahope-aag/hazardos-sub001/utils"
)

const correlationHeader = "X-Correlation-Id"

// CorrelationMiddleware threads a correlation id from the request into the
// context and response, minting one when the caller didn't send any. Outbox
// events inherit it so a completion transition can be traced end to end.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.Request.Header.Get(correlationHeader)
		if correlationId == "" {
			correlationId = uuid.NewString()
		}

		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), correlationId)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(correlationHeader, correlationId)
		c.Next()
	}
}

package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mykolaharmash/telemetry-service-demo/internal/dto"
)

// bearerAuth gates a route group behind one static bearer token.
// Absence or mismatch aborts with the same forbidden outcome, so the
// response does not reveal which scope was expected.
func bearerAuth(token string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			log.Warn("Rejected request with invalid authorization",
				zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error: "forbidden",
			})
			return
		}

		c.Next()
	}
}

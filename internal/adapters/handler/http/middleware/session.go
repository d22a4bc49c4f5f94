package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-plan-engine/internal/core/services"
)

const (
	bearerPrefix = "Bearer "
	// PlanUserKey holds the id of the plan a session token was issued for.
	PlanUserKey = "plan_user_id"
)

// RequirePlanSession admits requests carrying a valid session token for an
// existing plan and stores its user id under PlanUserKey.
func RequirePlanSession(tokens *services.TokenService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing session token")
			return
		}

		token, found := strings.CutPrefix(header, bearerPrefix)
		token = strings.TrimSpace(token)
		if !found || token == "" || strings.ContainsAny(token, " \t") {
			abortUnauthorized(c, "malformed session header, expected \"Bearer <token>\"")
			return
		}

		userID, err := tokens.ValidateToken(c.Request.Context(), token)
		if err != nil {
			logger.Debug("session rejected", zap.String("path", c.FullPath()), zap.Error(err))
			abortUnauthorized(c, "session expired or plan no longer exists")
			return
		}

		c.Set(PlanUserKey, userID)
		c.Next()
	}
}

// PlanUserID returns the plan owner resolved by RequirePlanSession.
func PlanUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(PlanUserKey)
	return userID, userID != ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="plan"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

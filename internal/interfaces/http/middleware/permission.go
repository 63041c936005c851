package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/faqplusplus/faqplusplus/internal/shared/constants"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
	"github.com/faqplusplus/faqplusplus/internal/shared/utils"
)

// PolicyEnforcer answers whether any of the subjects may call method on path.
type PolicyEnforcer interface {
	EnforceAny(subjects []string, path, method string) (bool, error)
}

type PermissionMiddleware struct {
	enforcer PolicyEnforcer
	logger   logger.Interface
}

func NewPermissionMiddleware(enforcer PolicyEnforcer, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		enforcer: enforcer,
		logger:   logger,
	}
}

// RequirePermission checks the request path and method against the policies
// of the caller's token roles and of the caller's upn. Runs after RequireAuth.
func (m *PermissionMiddleware) RequirePermission() gin.HandlerFunc {
	return func(c *gin.Context) {
		upn := c.GetString(constants.ContextKeyUPN)
		if upn == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		subjects := append([]string{upn}, c.GetStringSlice(constants.ContextKeyRoles)...)
		path := c.Request.URL.Path

		allowed, err := m.enforcer.EnforceAny(subjects, path, c.Request.Method)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "upn", upn, "path", path)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "upn", upn, "path", path, "method", c.Request.Method)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

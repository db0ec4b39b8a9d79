package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lotusroom/enroll-backend/internal/model"
	"github.com/lotusroom/enroll-backend/internal/response"
)

// RoleDirectory resolves an identity's current role. The lookup happens per
// request rather than from token claims, so a role change or demotion takes
// effect immediately instead of at token expiry.
type RoleDirectory interface {
	RoleOf(ctx context.Context, email string) (model.Role, error)
}

// RequireRole checks that the authenticated identity currently holds the
// given role. It runs strictly before the guarded handler: a mismatch
// aborts with 403 and no data mutation can have happened.
func RequireRole(dir RoleDirectory, role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		current, err := dir.RoleOf(c.Request.Context(), claims.Email)
		if err != nil {
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		if current != role {
			response.AbortFail(c, http.StatusForbidden, response.ErrRoleRequired)
			return
		}

		c.Next()
	}
}

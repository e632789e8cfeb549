package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"library-backend/internal/platform/apierr"
)

const (
	CtxRoleKey  = "role"
	ctxIdentity = "identity"
)

// RequireAuth: verifies Authorization: Bearer <token> and stores the identity on the context.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			apierr.Abort(c, apierr.ErrUnauthorized("missing Authorization header"))
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierr.Abort(c, apierr.ErrUnauthorized("invalid Authorization header"))
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			apierr.Abort(c, apierr.ErrUnauthorized("empty token"))
			return
		}

		id, err := ParseToken(secret, tokenStr)
		if err != nil {
			apierr.Abort(c, apierr.ErrUnauthorized("invalid token"))
			return
		}

		c.Set(ctxIdentity, id)
		c.Set(CtxRoleKey, id.Role)
		c.Next()
	}
}

// RequireRole: e.g. only admins may delete catalog entries.
func RequireRole(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roles {
		if r == "" {
			continue
		}
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRoleKey)
		if role == "" {
			apierr.Abort(c, apierr.ErrForbidden("missing role"))
			return
		}
		if _, allowed := roleSet[role]; !allowed {
			apierr.Abort(c, apierr.ErrForbidden("forbidden"))
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by RequireAuth.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

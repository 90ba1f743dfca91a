package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	ctxApproverID = "approver_id"
	ctxActorRole  = "actor_role"
)

// ApproverID returns the authenticated approver's public id, empty when the
// route is unauthenticated.
func ApproverID(c echo.Context) string {
	if v, ok := c.Get(ctxApproverID).(string); ok {
		return v
	}
	return ""
}

// ActorRole returns the authenticated role label (e.g. "APPROVER").
func ActorRole(c echo.Context) string {
	if v, ok := c.Get(ctxActorRole).(string); ok {
		return v
	}
	return ""
}

// JWTAuth guards approver routes: Bearer token, HS256 only, role claim must
// match requiredRole. On success the approver id and role are stashed on the
// context for handlers.
func JWTAuth(secret []byte, requiredRole string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}

			role, _ := claims["role"].(string)
			if requiredRole != "" && role != requiredRole {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
			}
			sub, _ := claims["sub"].(string)

			c.Set(ctxApproverID, sub)
			c.Set(ctxActorRole, role)
			return next(c)
		}
	}
}

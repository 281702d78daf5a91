package middleware

import (
	"net/http"
	"strings"

	"parcel-delivery-backend/internal/client"

	"github.com/labstack/echo/v4"
)

// AuthEmailKey is where RequireAuth stores the verified email on the
// request context.
const AuthEmailKey = "auth_email"

func RequireAuth(verifier client.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			email, err := verifier.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(AuthEmailKey, email)
			return next(c)
		}
	}
}

// AuthEmail returns the verified email set by RequireAuth, or "".
func AuthEmail(c echo.Context) string {
	email, _ := c.Get(AuthEmailKey).(string)
	return email
}

// OwnerScope resolves the owner email for owner-scoped listings. A supplied
// query param must match the authenticated email; when absent the listing
// defaults to the caller's own records.
func OwnerScope(c echo.Context, queryParam string) (string, error) {
	authEmail := AuthEmail(c)
	requested := c.QueryParam(queryParam)
	if requested == "" {
		return authEmail, nil
	}
	if requested != authEmail {
		return "", echo.NewHTTPError(http.StatusForbidden, "cannot access records of another user")
	}
	return requested, nil
}

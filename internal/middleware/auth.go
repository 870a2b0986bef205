package middleware

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"ticketing/internal/auth"
	apperrors "ticketing/internal/errors"
)

const (
	claimsKey    = "user"
	authErrKey   = "auth_error"
	bearerScheme = "Bearer"
)

// TokenVerifier verifies an access token and returns its claims.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

// JWT authenticates requests with a bearer access token. A missing token is
// answered with 401, an expired one with 403 TOKEN_EXPIRED and any other
// failure with 403 INVALID_TOKEN.
func JWT(verifier TokenVerifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":" + bearerScheme + " ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := verifier.VerifyAccessToken(strings.TrimSpace(token))
			if err != nil {
				c.Set(authErrKey, err)
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			cause, _ := c.Get(authErrKey).(error)
			if cause == nil {
				cause = apperrors.ErrTokenMissing
			}
			httpErr := apperrors.MapErrorToHTTP(cause)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// RequireRole rejects callers whose role may not perform op.
func RequireRole(op auth.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := ClaimsFrom(c)
			if err := auth.Authorize(claims, op); err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified claims of the request.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// ErrUnauthenticated is returned by handlers reached without claims.
var ErrUnauthenticated = echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
	Error: apperrors.ErrTokenMissing.Error(),
	Code:  "TOKEN_MISSING",
})

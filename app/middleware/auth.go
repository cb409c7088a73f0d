package middleware

import (
	"net/http"
	"strings"

	dto "github.com/authify-io/authify/app/dto/http"
	"github.com/authify-io/authify/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	ContextKeyEmail     = "account_email"
	ContextKeyAccountID = "account_id"
)

type tokenVerifier interface {
	Verify(tokenString string) (*service.Claims, error)
}

// UnauthorizedHandler writes the response for a protected resource reached
// without an established identity. It is injected so the failure format can
// change without touching the gate.
type UnauthorizedHandler func(c echo.Context) error

func DefaultUnauthorizedHandler(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
}

type AuthMiddleware struct {
	tokens       tokenVerifier
	unauthorized UnauthorizedHandler
}

func NewAuthMiddleware(tokens tokenVerifier, unauthorized UnauthorizedHandler) *AuthMiddleware {
	if unauthorized == nil {
		unauthorized = DefaultUnauthorizedHandler
	}
	return &AuthMiddleware{tokens: tokens, unauthorized: unauthorized}
}

// Authenticate extracts and verifies a bearer token when one is present.
// A missing, malformed, or invalid token leaves the identity unset and lets
// the request proceed; whether that matters is decided by RequireIdentity on
// the target route.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return next(c)
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logrus.Debug("Invalid authorization header format")
			return next(c)
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			logrus.Debug("Invalid or expired access token")
			return next(c)
		}

		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyAccountID, claims.AccountID)

		return next(c)
	}
}

// RequireIdentity rejects requests whose identity was not established by
// Authenticate.
func (m *AuthMiddleware) RequireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := c.Get(ContextKeyEmail).(string); !ok {
			return m.unauthorized(c)
		}
		return next(c)
	}
}

// IdentityEmail returns the authenticated caller's email, if established.
func IdentityEmail(c echo.Context) (string, bool) {
	email, ok := c.Get(ContextKeyEmail).(string)
	return email, ok
}

package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/workerhealth/hid/internal/domain/access"
)

type contextKey string

// PrincipalKey stores the authenticated *access.Principal on the request context.
const PrincipalKey contextKey = "principal"

// AuthErrorKey holds, on the echo context, why a presented bearer token
// was rejected.
const AuthErrorKey = "auth_error"

// SessionMiddleware resolves the bearer token, if any, into a principal
// on the request context. Requests without a valid token continue with no
// principal; the access policy turns that into an authentication error
// for guarded operations.
func SessionMiddleware(tokens *Tokens, skip func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}

			tokenStr, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return next(c)
			}
			p, err := tokens.Parse(tokenStr)
			if err != nil {
				c.Set(AuthErrorKey, err.Error())
				return next(c)
			}

			ctx := WithPrincipal(c.Request().Context(), p)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p *access.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFromContext returns nil when the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *access.Principal {
	p, _ := ctx.Value(PrincipalKey).(*access.Principal)
	return p
}

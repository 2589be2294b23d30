package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pixelgram/internal/model"
	"pixelgram/internal/repository"
	"pixelgram/internal/session"
)

// WithSession resolves the browser session to a live, non-banned user row on
// every request and stores it in the context under "me".  The lookup is done
// fresh each request; there is no request-scoped user cache.  Anonymous
// requests pass through with no "me" set.
func WithSession(store *session.Store, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok, err := store.UserID(c)
			if err != nil {
				return err
			}
			if ok {
				u, err := users.GetActiveByID(c.Request().Context(), uid)
				switch {
				case err == nil:
					c.Set("me", &u)
				case errors.Is(err, repository.ErrNotFound):
					// Banned or deleted since login; treat as anonymous.
				default:
					return err
				}
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by WithSession, or nil for an
// anonymous request.
func CurrentUser(c echo.Context) *model.User {
	if u, ok := c.Get("me").(*model.User); ok {
		return u
	}
	return nil
}

// RequireAdmin gates the admin endpoints.  Anonymous users are sent to the
// login page; authenticated users without authority get a 403.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		me := CurrentUser(c)
		if me == nil {
			return c.Redirect(http.StatusFound, "/login")
		}
		if !me.Admin() {
			return c.String(http.StatusForbidden, "authority is required")
		}
		return next(c)
	}
}

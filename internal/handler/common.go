// Package handler contains one HTTP handler per route, each validating its
// input, calling the repositories and rendering a view or redirecting.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pixelgram/internal/middleware"
	"pixelgram/internal/session"
)

// postsPerPage is the fixed page size of every listing query.
const postsPerPage = 20

// pageData assembles the template data every layout page needs: the current
// user, the pending flash message and the session's CSRF token, merged with
// handler-specific values.  Store faults were already surfaced by the session
// middleware, so reads here are best-effort.
func pageData(c echo.Context, store *session.Store, extra echo.Map) echo.Map {
	flash, _ := store.PopFlash(c)
	token, _ := store.CSRFToken(c)
	data := echo.Map{
		"Me":        middleware.CurrentUser(c),
		"Flash":     flash,
		"CSRFToken": token,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// redirectWithFlash records a one-shot message and bounces the browser.
func redirectWithFlash(c echo.Context, store *session.Store, msg, target string) error {
	if err := store.SetFlash(c, msg); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, target)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"pixelgram/internal/repository"
	"pixelgram/internal/session"
)

// AdminHandler serves the ban page and the fixture reset endpoint.  Route
// registration guards /admin with the RequireAdmin middleware.
type AdminHandler struct {
	Users    *repository.UserRepo
	Posts    *repository.PostRepo
	Comments *repository.CommentRepo
	Sessions *session.Store
}

func NewAdminHandler(users *repository.UserRepo, posts *repository.PostRepo, comments *repository.CommentRepo, sessions *session.Store) *AdminHandler {
	return &AdminHandler{Users: users, Posts: posts, Comments: comments, Sessions: sessions}
}

// GetBanned lists active, non-admin users as ban candidates.
func (h *AdminHandler) GetBanned(c echo.Context) error {
	users, err := h.Users.BanCandidates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "banned", pageData(c, h.Sessions, echo.Map{"Users": users}))
}

// PostBanned soft-deletes every checked user in one statement.
func (h *AdminHandler) PostBanned(c echo.Context) error {
	token, err := h.Sessions.CSRFToken(c)
	if err != nil {
		return err
	}
	if c.FormValue("csrf_token") != token {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "csrf token mismatch")
	}
	params, err := c.FormParams()
	if err != nil {
		return err
	}
	var ids []int
	for _, raw := range params["uid"] {
		id, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if err := h.Users.Ban(c.Request().Context(), ids); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/admin/banned")
}

// GetInitialize resets the benchmark fixture: rows above the seeded id
// ranges are removed and ban flags rebuilt.  Test seam, not a production
// operation.
func (h *AdminHandler) GetInitialize(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Posts.ResetFixture(ctx); err != nil {
		return err
	}
	if err := h.Comments.ResetFixture(ctx); err != nil {
		return err
	}
	if err := h.Users.ResetFixture(ctx); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"pixelgram/internal/repository"
	"pixelgram/internal/service"
	"pixelgram/internal/session"
)

// HomeHandler serves the feed pages: global timeline, the paging fragment,
// single posts and user profiles.
type HomeHandler struct {
	Posts     *repository.PostRepo
	Comments  *repository.CommentRepo
	Users     *repository.UserRepo
	Assembler *service.Assembler
	Sessions  *session.Store
}

func NewHomeHandler(posts *repository.PostRepo, comments *repository.CommentRepo, users *repository.UserRepo, asm *service.Assembler, sessions *session.Store) *HomeHandler {
	return &HomeHandler{Posts: posts, Comments: comments, Users: users, Assembler: asm, Sessions: sessions}
}

// GetIndex renders the latest page of the global feed.
func (h *HomeHandler) GetIndex(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := h.Posts.ListLatest(ctx, postsPerPage)
	if err != nil {
		return err
	}
	posts, err := h.Assembler.Assemble(ctx, rows, false)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "index", pageData(c, h.Sessions, echo.Map{"Posts": posts}))
}

// Timestamps arrive in an ISO-8601-like shape; the timezone suffix, if any,
// is ignored.
var iso8601Re = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[ tT](\d{2}):(\d{2}):(\d{2})`)

func parseISO8601(s string) (time.Time, bool) {
	m := iso8601Re.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	n := make([]int, 6)
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+1])
	}
	return time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], 0, time.Local), true
}

// GetPosts renders the layout-less feed fragment, optionally bounded by
// max_created_at for paging.
func (h *HomeHandler) GetPosts(c echo.Context) error {
	var maxCreatedAt *time.Time
	if raw := c.QueryParam("max_created_at"); raw != "" {
		t, ok := parseISO8601(raw)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_created_at")
		}
		maxCreatedAt = &t
	}

	ctx := c.Request().Context()
	rows, err := h.Posts.ListBefore(ctx, maxCreatedAt, postsPerPage)
	if err != nil {
		return err
	}
	posts, err := h.Assembler.Assemble(ctx, rows, false)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "posts", echo.Map{"Posts": posts})
}

// GetPost renders one post with its full (capped) comment history.
func (h *HomeHandler) GetPost(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	ctx := c.Request().Context()
	rows, err := h.Posts.GetActiveByID(ctx, id)
	if err != nil {
		return err
	}
	posts, err := h.Assembler.Assemble(ctx, rows, true)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.Render(http.StatusOK, "post", pageData(c, h.Sessions, echo.Map{"Posts": posts}))
}

// GetUserProfile renders a user's page: their latest posts plus the post,
// comment and received-comment totals.
func (h *HomeHandler) GetUserProfile(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.Users.GetActiveByAccountName(ctx, c.Param("account_name"))
	if err != nil {
		if err == repository.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return err
	}

	rows, err := h.Posts.ListByUser(ctx, user.ID, postsPerPage)
	if err != nil {
		return err
	}
	posts, err := h.Assembler.Assemble(ctx, rows, false)
	if err != nil {
		return err
	}

	commentCount, err := h.Comments.CountByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	postIDs, err := h.Posts.IDsByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	commentedCount, err := h.Comments.CountForPosts(ctx, postIDs)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "user", pageData(c, h.Sessions, echo.Map{
		"User":           user,
		"Posts":          posts,
		"PostCount":      len(postIDs),
		"CommentCount":   commentCount,
		"CommentedCount": commentedCount,
	}))
}

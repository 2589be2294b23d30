package handler

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"pixelgram/internal/middleware"
	"pixelgram/internal/repository"
	"pixelgram/internal/session"
)

// uploadLimit caps the raw image payload.  The boundary is inclusive: a file
// of exactly this size is accepted.
const uploadLimit = 10 * 1024 * 1024

// mimeByExt pairs the extensions served under /image with the stored mime
// types.  A request whose extension does not match the stored type is a 404.
var mimeByExt = map[string]string{
	"jpg": "image/jpeg",
	"png": "image/png",
	"gif": "image/gif",
}

// PostHandler serves uploads, image bytes and comments.
type PostHandler struct {
	Posts    *repository.PostRepo
	Comments *repository.CommentRepo
	Sessions *session.Store
}

func NewPostHandler(posts *repository.PostRepo, comments *repository.CommentRepo, sessions *session.Store) *PostHandler {
	return &PostHandler{Posts: posts, Comments: comments, Sessions: sessions}
}

// checkCSRF compares the submitted token with the session's.  Mismatch
// aborts the request with 422.
func (h *PostHandler) checkCSRF(c echo.Context) error {
	token, err := h.Sessions.CSRFToken(c)
	if err != nil {
		return err
	}
	if c.FormValue("csrf_token") != token {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "csrf token mismatch")
	}
	return nil
}

// PostIndex accepts an image upload.  The multipart machinery has already
// buffered large files to disk; the payload is read back fully and
// size-checked before anything is written to storage.
func (h *PostHandler) PostIndex(c echo.Context) error {
	me := middleware.CurrentUser(c)
	if me == nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	if err := h.checkCSRF(c); err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return redirectWithFlash(c, h.Sessions, "an image is required", "/")
	}
	mime := file.Header.Get("Content-Type")
	if _, ok := mimeAllowed(mime); !ok {
		return redirectWithFlash(c, h.Sessions, "only jpg, png and gif images can be posted", "/")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	imgdata, err := io.ReadAll(io.LimitReader(src, uploadLimit+1))
	if err != nil {
		return err
	}
	if len(imgdata) > uploadLimit {
		return redirectWithFlash(c, h.Sessions, "file size too large", "/")
	}

	pid, err := h.Posts.Create(c.Request().Context(), me.ID, mime, imgdata, c.FormValue("body"))
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", pid))
}

func mimeAllowed(mime string) (string, bool) {
	for ext, m := range mimeByExt {
		if m == mime {
			return ext, true
		}
	}
	return "", false
}

// GetImage serves the raw stored bytes when the requested extension matches
// the stored mime type.
func (h *PostHandler) GetImage(c echo.Context) error {
	name := c.Param("filename")
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	id, err := strconv.Atoi(name[:dot])
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if id == 0 {
		return c.NoContent(http.StatusOK)
	}

	post, err := h.Posts.GetImage(c.Request().Context(), id)
	if err == repository.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	if mimeByExt[name[dot+1:]] != post.Mime {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return c.Blob(http.StatusOK, post.Mime, post.Imgdata)
}

var postIDRe = regexp.MustCompile(`^[0-9]+$`)

// PostComment adds a comment to a post and bounces back to its detail page.
func (h *PostHandler) PostComment(c echo.Context) error {
	me := middleware.CurrentUser(c)
	if me == nil {
		return c.Redirect(http.StatusFound, "/login")
	}
	if err := h.checkCSRF(c); err != nil {
		return err
	}

	rawID := c.FormValue("post_id")
	if !postIDRe.MatchString(rawID) {
		return c.String(http.StatusOK, "post_id must be an integer")
	}
	postID, _ := strconv.Atoi(rawID)

	if _, err := h.Comments.Create(c.Request().Context(), postID, me.ID, c.FormValue("comment")); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", postID))
}

package handler

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	"pixelgram/internal/middleware"
	"pixelgram/internal/repository"
	"pixelgram/internal/session"
	"pixelgram/internal/utils"
)

// AuthHandler bundles dependencies for the login/register/logout endpoints.
type AuthHandler struct {
	Users    *repository.UserRepo
	Sessions *session.Store
}

func NewAuthHandler(users *repository.UserRepo, sessions *session.Store) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions}
}

var (
	accountNameRe = regexp.MustCompile(`^[0-9a-zA-Z]{3,}$`)
	passwordRe    = regexp.MustCompile(`^[0-9a-zA-Z_]{6,}$`)
)

func validCredentials(accountName, password string) bool {
	return accountNameRe.MatchString(accountName) && passwordRe.MatchString(password)
}

// GetLogin shows the login form; already-authenticated browsers go home.
func (h *AuthHandler) GetLogin(c echo.Context) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, "login", pageData(c, h.Sessions, nil))
}

// PostLogin checks the credentials against the stored passhash and
// establishes a session on success.
func (h *AuthHandler) PostLogin(c echo.Context) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	accountName := c.FormValue("account_name")
	password := c.FormValue("password")

	u, err := h.Users.GetActiveByAccountName(c.Request().Context(), accountName)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err != nil || utils.Passhash(accountName, password) != u.Passhash {
		return redirectWithFlash(c, h.Sessions, "account name or password is wrong", "/login")
	}
	if err := h.Sessions.Login(c, u.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// GetRegister shows the registration form.
func (h *AuthHandler) GetRegister(c echo.Context) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, "register", pageData(c, h.Sessions, nil))
}

// PostRegister validates the credentials, enforces account name uniqueness
// and logs the fresh user straight in.  Nothing is committed on a validation
// failure.
func (h *AuthHandler) PostRegister(c echo.Context) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	accountName := c.FormValue("account_name")
	password := c.FormValue("password")
	if !validCredentials(accountName, password) {
		return redirectWithFlash(c, h.Sessions,
			"account name must be at least 3 characters, password at least 6", "/register")
	}

	ctx := c.Request().Context()
	taken, err := h.Users.AccountNameTaken(ctx, accountName)
	if err != nil {
		return err
	}
	if taken {
		return redirectWithFlash(c, h.Sessions, "account name is already taken", "/register")
	}

	uid, err := h.Users.Create(ctx, accountName, utils.Passhash(accountName, password))
	if errors.Is(err, repository.ErrAccountTaken) {
		return redirectWithFlash(c, h.Sessions, "account name is already taken", "/register")
	}
	if err != nil {
		return err
	}
	if err := h.Sessions.Login(c, uid); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// GetLogout clears the session.
func (h *AuthHandler) GetLogout(c echo.Context) error {
	if err := h.Sessions.Logout(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

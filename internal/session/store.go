// Package session implements the browser session layer: an opaque id in a
// cookie pointing at a small JSON record in Redis.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the cookie carrying the opaque session id.
	CookieName = "session_id"

	keyPrefix = "session:"

	// TTL is how long an untouched session survives in the store.  Every
	// write refreshes it.
	TTL = 24 * time.Hour
)

// Session is the typed record stored per browser.  UserID is zero for
// anonymous sessions (which exist only to carry a flash message).
type Session struct {
	UserID    int    `json:"user_id,omitempty"`
	CSRFToken string `json:"csrf_token,omitempty"`
	Flash     string `json:"flash,omitempty"`
}

// Store reads and writes sessions in Redis.
type Store struct{ Client *redis.Client }

// NewStore connects to the session store and verifies the connection.
func NewStore(addr string) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Store{Client: client}, nil
}

// NewCSRFToken returns a hex-encoded token from 8 random bytes.
func NewCSRFToken() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// load resolves the request's cookie to its session record.  A missing
// cookie, expired key or corrupt record all read as "no session"; only an
// infrastructure fault talking to the store is an error.
func (s *Store) load(c echo.Context) (string, Session, bool, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", Session{}, false, nil
	}
	raw, err := s.Client.Get(c.Request().Context(), keyPrefix+cookie.Value).Result()
	if errors.Is(err, redis.Nil) {
		return cookie.Value, Session{}, false, nil
	}
	if err != nil {
		return "", Session{}, false, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return cookie.Value, Session{}, false, nil
	}
	return cookie.Value, sess, true, nil
}

// save writes the record under the given id, refreshes the TTL and (re)sets
// the cookie.
func (s *Store) save(c echo.Context, id string, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.Client.Set(c.Request().Context(), keyPrefix+id, raw, TTL).Err(); err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(TTL),
		HttpOnly: true,
	})
	return nil
}

// Login replaces whatever session the browser had with a fresh one holding
// the user id and a new CSRF token.
func (s *Store) Login(c echo.Context, userID int) error {
	token, err := NewCSRFToken()
	if err != nil {
		return err
	}
	return s.save(c, uuid.NewString(), Session{UserID: userID, CSRFToken: token})
}

// Logout deletes the session record and expires the cookie.
func (s *Store) Logout(c echo.Context) error {
	id, _, ok, err := s.load(c)
	if err != nil {
		return err
	}
	if ok {
		if err := s.Client.Del(c.Request().Context(), keyPrefix+id).Err(); err != nil {
			return err
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return nil
}

// UserID returns the session's user id, or false when the browser has no
// authenticated session.  A store fault is an error, not an anonymous
// request.
func (s *Store) UserID(c echo.Context) (int, bool, error) {
	_, sess, ok, err := s.load(c)
	if err != nil {
		return 0, false, err
	}
	if !ok || sess.UserID == 0 {
		return 0, false, nil
	}
	return sess.UserID, true, nil
}

// CSRFToken returns the token the current session expects on state-changing
// requests, or empty when there is no session.
func (s *Store) CSRFToken(c echo.Context) (string, error) {
	_, sess, ok, err := s.load(c)
	if err != nil || !ok {
		return "", err
	}
	return sess.CSRFToken, nil
}

// SetFlash stores a one-shot message.  An anonymous session is created on
// demand so messages survive the redirect even before login.
func (s *Store) SetFlash(c echo.Context, msg string) error {
	id, sess, ok, err := s.load(c)
	if err != nil {
		return err
	}
	if !ok {
		if id == "" {
			id = uuid.NewString()
		}
		sess = Session{}
	}
	sess.Flash = msg
	return s.save(c, id, sess)
}

// PopFlash returns the pending flash message and clears it, so it renders
// exactly once.
func (s *Store) PopFlash(c echo.Context) (string, error) {
	id, sess, ok, err := s.load(c)
	if err != nil {
		return "", err
	}
	if !ok || sess.Flash == "" {
		return "", nil
	}
	msg := sess.Flash
	sess.Flash = ""
	if err := s.save(c, id, sess); err != nil {
		return "", err
	}
	return msg, nil
}

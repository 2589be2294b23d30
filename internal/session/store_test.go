package session

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return &Store{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

// newContext builds an echo context, carrying over any cookies the previous
// response set, the way a browser would.
func newContext(prev *httptest.ResponseRecorder) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if prev != nil {
		for _, ck := range prev.Result().Cookies() {
			req.AddCookie(ck)
		}
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestLoginRoundtrip(t *testing.T) {
	store := newTestStore(t)

	c, rec := newContext(nil)
	require.NoError(t, store.Login(c, 42))
	require.NotEmpty(t, rec.Result().Cookies(), "login must set the session cookie")

	c2, _ := newContext(rec)
	uid, ok, err := store.UserID(c2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, uid)
}

func TestCSRFTokenShape(t *testing.T) {
	store := newTestStore(t)

	c, rec := newContext(nil)
	require.NoError(t, store.Login(c, 42))

	c2, _ := newContext(rec)
	token, err := store.CSRFToken(c2)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), token, "8 random bytes, hex encoded")
}

func TestLoginRotatesCSRFToken(t *testing.T) {
	store := newTestStore(t)

	c, rec := newContext(nil)
	require.NoError(t, store.Login(c, 42))
	c2, _ := newContext(rec)
	first, err := store.CSRFToken(c2)
	require.NoError(t, err)

	c3, rec3 := newContext(nil)
	require.NoError(t, store.Login(c3, 42))
	c4, _ := newContext(rec3)
	second, err := store.CSRFToken(c4)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestLogoutClearsSession(t *testing.T) {
	store := newTestStore(t)

	c, rec := newContext(nil)
	require.NoError(t, store.Login(c, 42))

	c2, _ := newContext(rec)
	require.NoError(t, store.Logout(c2))

	// Even a browser that kept the old cookie value resolves to nothing.
	c3, _ := newContext(rec)
	_, ok, err := store.UserID(c3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlashPopsExactlyOnce(t *testing.T) {
	store := newTestStore(t)

	c, rec := newContext(nil)
	require.NoError(t, store.SetFlash(c, "account name is already taken"))

	c2, _ := newContext(rec)
	msg, err := store.PopFlash(c2)
	require.NoError(t, err)
	assert.Equal(t, "account name is already taken", msg)

	c3, _ := newContext(rec)
	msg, err = store.PopFlash(c3)
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestFlashSurvivesWithoutLogin(t *testing.T) {
	store := newTestStore(t)

	c, rec := newContext(nil)
	require.NoError(t, store.SetFlash(c, "wrong password"))

	c2, _ := newContext(rec)
	_, ok, err := store.UserID(c2)
	require.NoError(t, err)
	assert.False(t, ok, "flash-only sessions stay anonymous")
}

func TestExpiredSessionReadsAsAnonymous(t *testing.T) {
	mr := miniredis.RunT(t)
	store := &Store{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	c, rec := newContext(nil)
	require.NoError(t, store.Login(c, 42))
	mr.FastForward(TTL + time.Minute)

	c2, _ := newContext(rec)
	_, ok, err := store.UserID(c2)
	require.NoError(t, err, "an expired key is a miss, not a fault")
	assert.False(t, ok)
}

func TestStoreOutageSurfacesAsError(t *testing.T) {
	mr := miniredis.RunT(t)
	store := &Store{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	c, rec := newContext(nil)
	require.NoError(t, store.Login(c, 42))
	mr.Close()

	c2, _ := newContext(rec)
	_, _, err := store.UserID(c2)
	assert.Error(t, err, "a dead store must not degrade to anonymous")
}
